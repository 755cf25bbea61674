// Package service sequences the mind map's commands against the server and
// keeps the client-side view state consistent with it.
package service

import (
	"context"
	"encoding/json"

	"github.com/persistorai/mindmap/client"
	"github.com/persistorai/mindmap/internal/domain"
	"github.com/persistorai/mindmap/internal/models"
)

// Compile-time check: *ClientGateway must satisfy domain.Gateway.
var _ domain.Gateway = (*ClientGateway)(nil)

// ClientGateway adapts the REST client to domain.Gateway.
type ClientGateway struct {
	c *client.Client
}

// NewClientGateway creates a ClientGateway.
func NewClientGateway(c *client.Client) *ClientGateway {
	return &ClientGateway{c: c}
}

// FetchGraph returns the unfiltered graph.
func (g *ClientGateway) FetchGraph(ctx context.Context) (*models.Graph, error) {
	return g.c.Graph.Fetch(ctx)
}

// AddKeyword expands keyword server-side. The generated map is not needed
// because every successful add is followed by a full refresh.
func (g *ClientGateway) AddKeyword(ctx context.Context, keyword string) error {
	_, err := g.c.Keywords.Add(ctx, keyword)
	return err
}

// ExportSubtree returns the subtree document rooted at id.
func (g *ClientGateway) ExportSubtree(ctx context.Context, id models.NodeID) (json.RawMessage, error) {
	return g.c.Nodes.Export(ctx, id)
}

// DeleteSubtree removes id and its descendants.
func (g *ClientGateway) DeleteSubtree(ctx context.Context, id models.NodeID) error {
	return g.c.Nodes.DeleteSubtree(ctx, id)
}
