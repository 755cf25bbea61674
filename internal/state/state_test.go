package state_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/persistorai/mindmap/internal/models"
	"github.com/persistorai/mindmap/internal/state"
)

func graphOf(ids ...models.NodeID) models.Graph {
	g := models.EmptyGraph()
	for _, id := range ids {
		g.Nodes = append(g.Nodes, models.Node{ID: id, Name: "n" + id.String()})
	}

	return g
}

func loaded(ids ...models.NodeID) state.State {
	s, _ := state.Reduce(state.Initial(), state.GraphFetched{Graph: graphOf(ids...)})

	return s
}

func selectedID(t *testing.T, s state.State) models.NodeID {
	t.Helper()

	id, ok := s.Selection.ID()
	if !ok {
		t.Fatal("expected a selection")
	}

	return id
}

func TestSelection_ToggleLaws(t *testing.T) {
	var s state.Selection

	if !s.Select(5).Select(5).Empty() {
		t.Error("select(x); select(x) should clear the selection")
	}

	id, ok := s.Select(5).Select(9).ID()
	if !ok || id != 9 {
		t.Errorf("select(x); select(y): got %d, %v", id, ok)
	}
}

func TestSelection_ReconcileDropsMissingNode(t *testing.T) {
	s := state.Selected(5)

	if s.Reconcile(graphOf(5, 6)).Empty() {
		t.Error("selection dropped although node 5 is still present")
	}

	if !s.Reconcile(graphOf(6)).Empty() {
		t.Error("selection kept although node 5 is gone")
	}
}

func TestSelection_JSON(t *testing.T) {
	tests := []struct {
		sel  state.Selection
		want string
	}{
		{sel: state.Selection{}, want: "null"},
		{sel: state.Selected(42), want: "42"},
	}

	for _, tc := range tests {
		got, err := json.Marshal(tc.sel)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(got) != tc.want {
			t.Errorf("got %s, want %s", got, tc.want)
		}
	}
}

func TestReduce_ClickOnUnknownNodeIsNoop(t *testing.T) {
	s := loaded(5)

	next, _ := state.Reduce(s, state.NodeClicked{ID: 99})

	if !next.Selection.Empty() {
		t.Error("selected a node that is not in the snapshot")
	}
}

func TestReduce_BootstrapFailureYieldsEmptyGraph(t *testing.T) {
	s, effects := state.Reduce(state.Initial(), state.Bootstrap{})
	if !reflect.DeepEqual(effects, []state.Effect{state.FetchGraph{Bootstrap: true}}) {
		t.Fatalf("effects: got %#v", effects)
	}

	s, _ = state.Reduce(s, state.GraphFetchFailed{Bootstrap: true, Message: "boom"})

	if !s.Loaded || len(s.Graph.Nodes) != 0 {
		t.Errorf("expected loaded empty graph, got %+v", s.Graph)
	}
	if s.Error != "" {
		t.Errorf("bootstrap failure must not surface an error, got %q", s.Error)
	}
}

func TestReduce_RefreshReconcilesSelection(t *testing.T) {
	s := loaded(5, 6)
	s, _ = state.Reduce(s, state.NodeClicked{ID: 5})

	if selectedID(t, s) != 5 {
		t.Fatal("node 5 should be selected")
	}

	s, _ = state.Reduce(s, state.GraphFetched{Graph: graphOf(6)})

	if !s.Selection.Empty() {
		t.Error("selection should be cleared when node 5 disappears")
	}
}

func TestReduce_EmptyKeywordIsNoop(t *testing.T) {
	s := loaded(2)

	next, effects := state.Reduce(s, state.KeywordSubmitted{Text: "  \t "})

	if len(effects) != 0 {
		t.Errorf("expected no effects, got %#v", effects)
	}
	if !reflect.DeepEqual(next, s) {
		t.Errorf("state changed: %+v", next)
	}
}

func TestReduce_SubmitKeywordSuccess(t *testing.T) {
	s := loaded(2)
	s, _ = state.Reduce(s, state.KeywordChanged{Text: "python"})

	s, effects := state.Reduce(s, state.KeywordSubmitted{Text: "python"})
	if !s.Loading || s.Pending != state.CommandAdd || s.Error != "" {
		t.Fatalf("expected pending add, got %+v", s)
	}
	want := []state.Effect{state.AddKeyword{Seq: s.Seq, Keyword: "python"}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("effects: got %#v, want %#v", effects, want)
	}

	s, effects = state.Reduce(s, state.KeywordAdded{Seq: s.Seq})
	if s.Keyword != "" {
		t.Errorf("keyword input not cleared: %q", s.Keyword)
	}
	if !reflect.DeepEqual(effects, []state.Effect{state.FetchGraph{Seq: s.Seq}}) {
		t.Fatalf("expected exactly one refresh, got %#v", effects)
	}
	if !s.Loading {
		t.Error("loading should hold until the refresh lands")
	}

	s, effects = state.Reduce(s, state.GraphFetched{Seq: s.Seq, Graph: graphOf(2, 3, 4)})
	if len(effects) != 0 {
		t.Errorf("unexpected effects %#v", effects)
	}
	if s.Loading || s.Pending != state.CommandNone || s.Settled != s.Seq {
		t.Errorf("command not settled: %+v", s)
	}
	if len(s.Graph.Nodes) != 3 {
		t.Errorf("graph not replaced: %+v", s.Graph)
	}
}

func TestReduce_SubmitKeywordFailureKeepsInput(t *testing.T) {
	s := loaded(2)
	s, _ = state.Reduce(s, state.KeywordSubmitted{Text: "ObjectRoot"})

	s, effects := state.Reduce(s, state.CommandFailed{Seq: s.Seq, Message: "Operations on ObjectRoot are not allowed."})

	if len(effects) != 0 {
		t.Errorf("failure must not refresh, got %#v", effects)
	}
	if s.Loading || s.Error != "Operations on ObjectRoot are not allowed." {
		t.Errorf("got loading=%v error=%q", s.Loading, s.Error)
	}
	if s.Keyword != "ObjectRoot" {
		t.Errorf("keyword should stay for correction, got %q", s.Keyword)
	}
}

func TestReduce_NewCommandClearsPreviousError(t *testing.T) {
	s := loaded(2)
	s, _ = state.Reduce(s, state.KeywordSubmitted{Text: "a"})
	s, _ = state.Reduce(s, state.CommandFailed{Seq: s.Seq, Message: "nope"})

	s, _ = state.Reduce(s, state.KeywordSubmitted{Text: "b"})

	if s.Error != "" || !s.Loading {
		t.Errorf("expected cleared error while pending, got %+v", s)
	}
}

func TestReduce_DeleteRequiresSelectionAndConfirmation(t *testing.T) {
	s := loaded(42)

	if _, effects := state.Reduce(s, state.DeleteRequested{Confirmed: true}); len(effects) != 0 {
		t.Errorf("delete without selection: got %#v", effects)
	}

	s, _ = state.Reduce(s, state.NodeClicked{ID: 42})

	next, effects := state.Reduce(s, state.DeleteRequested{Confirmed: false})
	if len(effects) != 0 || !reflect.DeepEqual(next, s) {
		t.Errorf("cancelled confirmation must be a no-op, got %#v", effects)
	}
}

func TestReduce_DeleteSuccess(t *testing.T) {
	s := loaded(42, 43)
	s, _ = state.Reduce(s, state.NodeClicked{ID: 42})

	s, effects := state.Reduce(s, state.DeleteRequested{Confirmed: true})
	if !reflect.DeepEqual(effects, []state.Effect{state.DeleteSubtree{Seq: s.Seq, ID: 42}}) {
		t.Fatalf("effects: got %#v", effects)
	}

	s, effects = state.Reduce(s, state.SubtreeDeleted{Seq: s.Seq, ID: 42})
	if !s.Selection.Empty() {
		t.Error("selection should be cleared after delete")
	}
	if !reflect.DeepEqual(effects, []state.Effect{state.FetchGraph{Seq: s.Seq}}) {
		t.Fatalf("expected refresh, got %#v", effects)
	}

	s, _ = state.Reduce(s, state.GraphFetched{Seq: s.Seq, Graph: graphOf(43)})
	if s.Loading || s.Error != "" {
		t.Errorf("got %+v", s)
	}
}

func TestReduce_DeleteFailureKeepsSelection(t *testing.T) {
	s := loaded(42)
	s, _ = state.Reduce(s, state.NodeClicked{ID: 42})
	s, _ = state.Reduce(s, state.DeleteRequested{Confirmed: true})

	s, effects := state.Reduce(s, state.CommandFailed{Seq: s.Seq, Message: "not found"})

	if len(effects) != 0 {
		t.Errorf("no refresh expected, got %#v", effects)
	}
	if s.Error != "not found" || s.Loading {
		t.Errorf("got error=%q loading=%v", s.Error, s.Loading)
	}
	if selectedID(t, s) != 42 {
		t.Error("selection should be unchanged")
	}
}

func TestReduce_ExportDoesNotRefresh(t *testing.T) {
	s := loaded(7)

	if _, effects := state.Reduce(s, state.ExportRequested{}); len(effects) != 0 {
		t.Errorf("export without selection: got %#v", effects)
	}

	s, _ = state.Reduce(s, state.NodeClicked{ID: 7})
	s, effects := state.Reduce(s, state.ExportRequested{})
	if !reflect.DeepEqual(effects, []state.Effect{state.ExportSubtree{Seq: s.Seq, ID: 7}}) {
		t.Fatalf("effects: got %#v", effects)
	}

	s, effects = state.Reduce(s, state.SubtreeExported{Seq: s.Seq, ID: 7, Artifact: "mindmap_export_7.json", Nodes: 3})
	if len(effects) != 0 {
		t.Errorf("export must not refresh, got %#v", effects)
	}
	if s.Loading || s.LastExport != "mindmap_export_7.json" || s.LastExportNodes != 3 {
		t.Errorf("got %+v", s)
	}
	if selectedID(t, s) != 7 {
		t.Error("export must not change the selection")
	}
}

func TestReduce_CommandsRejectedWhilePending(t *testing.T) {
	s := loaded(7)
	s, _ = state.Reduce(s, state.NodeClicked{ID: 7})
	s, _ = state.Reduce(s, state.KeywordSubmitted{Text: "go"})

	for _, ev := range []state.Event{
		state.KeywordSubmitted{Text: "rust"},
		state.ExportRequested{},
		state.DeleteRequested{Confirmed: true},
	} {
		next, effects := state.Reduce(s, ev)
		if len(effects) != 0 || next.Seq != s.Seq {
			t.Errorf("%T accepted while pending", ev)
		}
	}
}

func TestReduce_StaleResultsIgnored(t *testing.T) {
	s := loaded(7)
	s, _ = state.Reduce(s, state.KeywordSubmitted{Text: "go"})
	seq := s.Seq

	next, effects := state.Reduce(s, state.KeywordAdded{Seq: seq + 1})
	if len(effects) != 0 || !reflect.DeepEqual(next, s) {
		t.Error("result for an unknown command was applied")
	}

	next, _ = state.Reduce(s, state.SubtreeDeleted{Seq: seq, ID: 7})
	if !reflect.DeepEqual(next, s) {
		t.Error("result for a different command kind was applied")
	}
}

func TestReduce_RefreshFailureKeepsSnapshot(t *testing.T) {
	s := loaded(2, 3)
	s, _ = state.Reduce(s, state.KeywordSubmitted{Text: "go"})
	s, _ = state.Reduce(s, state.KeywordAdded{Seq: s.Seq})

	s, _ = state.Reduce(s, state.GraphFetchFailed{Seq: s.Seq, Message: "Failed to fetch graph"})

	if len(s.Graph.Nodes) != 2 {
		t.Errorf("previous snapshot lost: %+v", s.Graph)
	}
	if s.Loading || s.Error != "Failed to fetch graph" {
		t.Errorf("got loading=%v error=%q", s.Loading, s.Error)
	}
}

func TestReduce_ManualRefresh(t *testing.T) {
	s := loaded(2)

	s, effects := state.Reduce(s, state.RefreshRequested{})
	if !reflect.DeepEqual(effects, []state.Effect{state.FetchGraph{}}) {
		t.Fatalf("effects: got %#v", effects)
	}
	if s.Loading {
		t.Error("manual refresh is outside the command envelope")
	}

	s, _ = state.Reduce(s, state.GraphFetchFailed{Message: "down"})
	if s.Error != "down" || len(s.Graph.Nodes) != 1 {
		t.Errorf("got %+v", s)
	}
}

func TestReduce_LastRefreshWins(t *testing.T) {
	s := loaded(2)
	s, _ = state.Reduce(s, state.KeywordSubmitted{Text: "go"})
	s, _ = state.Reduce(s, state.KeywordAdded{Seq: s.Seq})

	s, _ = state.Reduce(s, state.GraphFetched{Graph: graphOf(2, 9)})
	if !s.Loading {
		t.Error("unrelated refresh must not settle the command")
	}

	s, _ = state.Reduce(s, state.GraphFetched{Seq: s.Seq, Graph: graphOf(2)})
	if s.Loading || len(s.Graph.Nodes) != 1 {
		t.Errorf("got %+v", s)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := loaded(5)
	s, _ = state.Reduce(s, state.NodeClicked{ID: 5})
	before := s

	state.Reduce(s, state.GraphFetched{Graph: graphOf(6)})
	state.Reduce(s, state.KeywordSubmitted{Text: "x"})

	if !reflect.DeepEqual(s, before) {
		t.Error("reducer mutated its input")
	}
}
