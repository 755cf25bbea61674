package client

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrEmptyExport is returned when the server answers an export with no body.
var ErrEmptyExport = errors.New("empty export document")

// NodeService handles subtree operations addressed by node id.
type NodeService struct {
	c *Client
}

// Export returns the JSON document for the subtree rooted at id.
func (s *NodeService) Export(ctx context.Context, id NodeID) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := s.c.get(ctx, "/export/"+id.String(), &doc); err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, ErrEmptyExport
	}
	return doc, nil
}

// DeleteSubtree removes id and all of its descendants.
func (s *NodeService) DeleteSubtree(ctx context.Context, id NodeID) error {
	return s.c.del(ctx, "/nodes/"+id.String(), nil)
}
