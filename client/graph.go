package client

import (
	"context"
)

// GraphService reads the whole concept graph.
type GraphService struct {
	c *Client
}

// Fetch returns the unfiltered graph, root node included.
func (s *GraphService) Fetch(ctx context.Context) (*Graph, error) {
	var g Graph
	if err := s.c.get(ctx, "/graph", &g); err != nil {
		return nil, err
	}
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Links == nil {
		g.Links = []Link{}
	}
	return &g, nil
}
