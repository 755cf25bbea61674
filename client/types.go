package client

import "github.com/persistorai/mindmap/internal/models"

// Graph is the full graph payload returned by GET /graph.
type Graph = models.Graph

// Node is a vertex of the graph payload.
type Node = models.Node

// Link is a parent → child edge of the graph payload.
type Link = models.Link

// NodeID identifies a node on the server.
type NodeID = models.NodeID

// AddKeywordRequest is the payload for POST /add.
type AddKeywordRequest struct {
	Keyword string `json:"keyword"`
}
