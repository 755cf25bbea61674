package models

import (
	"strconv"
)

// Default reserved root values used by the mind map server.
const (
	DefaultRootID   NodeID = 1
	DefaultRootName        = "ObjectRoot"
)

// Graph is one immutable snapshot of the server's concept tree.
// A new Graph replaces the previous one wholesale; nothing mutates it in place.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// EmptyGraph returns a snapshot with no nodes and no links.
func EmptyGraph() Graph {
	return Graph{Nodes: []Node{}, Links: []Link{}}
}

// Has reports whether id is a node of the snapshot.
func (g Graph) Has(id NodeID) bool {
	_, ok := g.Node(id)

	return ok
}

// Node returns the node with the given id.
func (g Graph) Node(id NodeID) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}

	return Node{}, false
}

// RootRule names the synthetic root of the server's tree. The root exists
// server-side but is hidden from the rendered view.
type RootRule struct {
	ID   NodeID
	Name string
}

// DefaultRootRule returns the rule for the server's stock root node.
func DefaultRootRule() RootRule {
	return RootRule{ID: DefaultRootID, Name: DefaultRootName}
}

// Filter returns the renderable view of g. It drops every node named after
// the root, every link touching the root id, and every link whose endpoints
// are not both present among the kept nodes. Duplicate node ids keep their
// first occurrence. g is not modified.
func (r RootRule) Filter(g Graph) Graph {
	out := Graph{
		Nodes: make([]Node, 0, len(g.Nodes)),
		Links: make([]Link, 0, len(g.Links)),
	}

	kept := make(map[NodeID]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Name == r.Name {
			continue
		}
		if _, dup := kept[n.ID]; dup {
			continue
		}
		kept[n.ID] = struct{}{}
		out.Nodes = append(out.Nodes, n)
	}

	for _, l := range g.Links {
		if l.Touches(r.ID) {
			continue
		}
		if _, ok := kept[l.Source]; !ok {
			continue
		}
		if _, ok := kept[l.Target]; !ok {
			continue
		}
		out.Links = append(out.Links, l)
	}

	return out
}

// IsRoot reports whether id is the reserved root id.
func (r RootRule) IsRoot(id NodeID) bool {
	return id == r.ID
}

// ParseNodeID parses a decimal node id as used in request paths.
func ParseNodeID(s string) (NodeID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidNodeID
	}

	return NodeID(v), nil
}

// String formats the id for request paths and file names.
func (id NodeID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
