package models

import (
	"encoding/json"
	"fmt"
)

// ExportNode is one node of a subtree export document as produced by the
// server's /export endpoint.
type ExportNode struct {
	ID        NodeID       `json:"id"`
	Title     string       `json:"title"`
	Content   *string      `json:"content"`
	CreatedAt string       `json:"created_at"`
	Children  []ExportNode `json:"children"`
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *ExportNode) Count() int {
	total := 1
	for i := range n.Children {
		total += n.Children[i].Count()
	}

	return total
}

// ExportFileName is the deterministic artifact name for a subtree export.
func ExportFileName(id NodeID) string {
	return fmt.Sprintf("mindmap_export_%d.json", id)
}

// DecodeExport parses an export document into its tree form.
func DecodeExport(doc json.RawMessage) (*ExportNode, error) {
	var root ExportNode
	if err := json.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	return &root, nil
}
