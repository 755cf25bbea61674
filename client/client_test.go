package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc, opts ...Option) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL+"/api", append([]Option{WithAPIKey("test-key")}, opts...)...)
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestGraphFetch(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/graph": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{
				"nodes": []map[string]any{
					{"id": 1, "name": "ObjectRoot", "val": 1},
					{"id": 7, "name": "Animal", "val": 1},
				},
				"links": []map[string]any{{"source": 1, "target": 7}},
			})
		},
	})

	g, err := c.Graph.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Links) != 1 {
		t.Fatalf("got %d nodes %d links", len(g.Nodes), len(g.Links))
	}
	if g.Nodes[1].ID != 7 || g.Nodes[1].Name != "Animal" {
		t.Errorf("got node %+v", g.Nodes[1])
	}
	if _, ok := g.Nodes[1].Attrs["val"]; !ok {
		t.Errorf("rendering hint val was dropped")
	}
}

func TestGraphFetch_NullArrays(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/graph": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{"nodes": nil, "links": nil})
		},
	})

	g, err := c.Graph.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if g.Nodes == nil || g.Links == nil {
		t.Errorf("expected empty, non-nil slices")
	}
}

func TestGraphFetch_MalformedBody(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/graph": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"nodes": [`)) //nolint:errcheck
		},
	})

	if _, err := c.Graph.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestKeywordsAdd(t *testing.T) {
	var got AddKeywordRequest
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/add": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("content type: got %q", r.Header.Get("Content-Type"))
			}
			json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
			jsonResponse(w, 200, map[string]any{"title": got.Keyword, "children": []any{}})
		},
	})

	doc, err := c.Keywords.Add(context.Background(), "python")
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if got.Keyword != "python" {
		t.Errorf("request keyword: got %q", got.Keyword)
	}
	if len(doc) == 0 {
		t.Errorf("expected generated map document")
	}
}

func TestNodesExport(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/export/42": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{"id": 42, "title": "Python", "children": []any{}})
		},
	})

	doc, err := c.Nodes.Export(context.Background(), 42)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(doc, &body); err != nil {
		t.Fatalf("invalid document: %v", err)
	}
	if body["title"] != "Python" {
		t.Errorf("got title %v", body["title"])
	}
}

func TestNodesExport_EmptyBody(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/export/42": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(200)
		},
	})

	_, err := c.Nodes.Export(context.Background(), 42)
	if !errors.Is(err, ErrEmptyExport) {
		t.Fatalf("expected ErrEmptyExport, got %v", err)
	}
}

func TestNodesDeleteSubtree(t *testing.T) {
	called := false
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"DELETE /api/nodes/42": func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusNoContent)
		},
	})

	if err := c.Nodes.DeleteSubtree(context.Background(), 42); err != nil {
		t.Fatalf("DeleteSubtree() error: %v", err)
	}
	if !called {
		t.Error("server was not called")
	}
}

func TestAPIError(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"DELETE /api/nodes/42": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"detail": "not found"})
		},
		"DELETE /api/nodes/1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 400, map[string]string{"detail": "Cannot delete the root node."})
		},
		"GET /api/export/5": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(500)
			w.Write([]byte("Internal Server Error")) //nolint:errcheck
		},
		"POST /api/add": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 422, map[string]any{"detail": []map[string]any{
				{"loc": []string{"body", "keyword"}, "msg": "field required"},
			}})
		},
	})

	ctx := context.Background()

	err := c.Nodes.DeleteSubtree(ctx, 42)
	if !IsNotFound(err) {
		t.Errorf("expected not found, got: %v", err)
	}
	if got := Message(err, MsgDeleteFailed); got != "not found" {
		t.Errorf("message: got %q, want %q", got, "not found")
	}

	err = c.Nodes.DeleteSubtree(ctx, 1)
	if !IsBadRequest(err) {
		t.Errorf("expected bad request, got: %v", err)
	}

	_, err = c.Nodes.Export(ctx, 5)
	if got := Message(err, MsgExportFailed); got != MsgExportFailed {
		t.Errorf("message: got %q, want generic", got)
	}

	_, err = c.Keywords.Add(ctx, "")
	if got := Message(err, MsgAddFailed); got != "field required" {
		t.Errorf("message: got %q, want %q", got, "field required")
	}
}

func TestAPIError_RequestID(t *testing.T) {
	var sent string
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/graph": func(w http.ResponseWriter, r *http.Request) {
			sent = r.Header.Get(RequestIDHeader)
			jsonResponse(w, 503, map[string]string{"detail": "down"})
		},
	})

	_, err := c.Graph.Fetch(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if sent == "" || apiErr.RequestID != sent {
		t.Errorf("request id: sent %q, error carries %q", sent, apiErr.RequestID)
	}
}

func TestTransportErrorUsesFallback(t *testing.T) {
	c := New("http://127.0.0.1:1/api", WithTimeout(time.Second))

	err := c.Nodes.DeleteSubtree(context.Background(), 3)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if got := Message(err, MsgDeleteFailed); got != MsgDeleteFailed {
		t.Errorf("message: got %q", got)
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	calls := 0
	settings := DefaultBreakerSettings("test")
	settings.ReadyToTrip = func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 2 }

	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/graph": func(w http.ResponseWriter, _ *http.Request) {
			calls++
			jsonResponse(w, 502, map[string]string{"detail": "bad gateway"})
		},
	}, WithCircuitBreaker(settings))

	ctx := context.Background()
	for range 2 {
		if _, err := c.Graph.Fetch(ctx); err == nil {
			t.Fatal("expected error")
		}
	}

	_, err := c.Graph.Fetch(ctx)
	if !IsUnavailable(err) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if calls != 2 {
		t.Errorf("server calls: got %d, want 2", calls)
	}
}

func TestCircuitBreakerIgnoresClientErrors(t *testing.T) {
	settings := DefaultBreakerSettings("test")
	settings.ReadyToTrip = func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 1 }

	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"DELETE /api/nodes/9": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"detail": "Node not found."})
		},
	}, WithCircuitBreaker(settings))

	ctx := context.Background()
	for range 3 {
		err := c.Nodes.DeleteSubtree(ctx, 9)
		if !IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
}

func TestAuthHeader(t *testing.T) {
	var gotAuth string
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/graph": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			jsonResponse(w, 200, map[string]any{"nodes": []any{}, "links": []any{}})
		},
	})

	c.Graph.Fetch(context.Background()) //nolint:errcheck
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header: got %q, want %q", gotAuth, "Bearer test-key")
	}
}
