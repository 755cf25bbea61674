// Package models defines data types for the mind map graph.
package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// NodeID identifies a concept node. IDs are assigned by the server.
type NodeID int64

// Node is a vertex of a graph snapshot. Fields other than id and name are
// rendering hints owned by the server and are carried through untouched.
type Node struct {
	ID    NodeID                     `json:"id"`
	Name  string                     `json:"name"`
	Attrs map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes id and name and keeps every other field in Attrs.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	idRaw, ok := raw["id"]
	if !ok {
		return ErrMissingID
	}

	var id NodeID
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return fmt.Errorf("decode node id: %w", err)
	}
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidNodeID, idRaw)
	}

	var name string
	if nameRaw, ok := raw["name"]; ok {
		if err := json.Unmarshal(nameRaw, &name); err != nil {
			return fmt.Errorf("decode node name: %w", err)
		}
	}

	delete(raw, "id")
	delete(raw, "name")
	if len(raw) == 0 {
		raw = nil
	}

	*n = Node{ID: id, Name: name, Attrs: raw}

	return nil
}

// MarshalJSON writes the node back with its rendering hints.
func (n Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(n.Attrs)+2)
	for k, v := range n.Attrs {
		out[k] = v
	}

	id, err := json.Marshal(n.ID)
	if err != nil {
		return nil, err
	}

	name, err := json.Marshal(n.Name)
	if err != nil {
		return nil, err
	}

	out["id"] = id
	out["name"] = name

	return json.Marshal(out)
}

// AttrKeys returns the names of the rendering hints in sorted order.
func (n Node) AttrKeys() []string {
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
