// Package domain defines the interfaces shared between the coordinator, the
// viewer API and the CLI. Consumers should depend on these interfaces rather
// than re-declaring equivalent ones.
package domain

import (
	"context"
	"encoding/json"

	"github.com/persistorai/mindmap/internal/models"
)

// GraphFetcher reads the full, unfiltered graph from the server.
type GraphFetcher interface {
	FetchGraph(ctx context.Context) (*models.Graph, error)
}

// Gateway is the mind map server's REST contract.
type Gateway interface {
	GraphFetcher
	AddKeyword(ctx context.Context, keyword string) error
	ExportSubtree(ctx context.Context, id models.NodeID) (json.RawMessage, error)
	DeleteSubtree(ctx context.Context, id models.NodeID) error
}

// ExportSink receives exported subtree documents. Save returns where the
// artifact ended up.
type ExportSink interface {
	Save(ctx context.Context, id models.NodeID, doc json.RawMessage) (string, error)
}
