package models

// Link is a directed parent → child edge between two nodes.
type Link struct {
	Source NodeID `json:"source"`
	Target NodeID `json:"target"`
}

// Touches reports whether either endpoint of the link is id.
func (l Link) Touches(id NodeID) bool {
	return l.Source == id || l.Target == id
}
