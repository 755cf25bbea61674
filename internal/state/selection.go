package state

import "github.com/persistorai/mindmap/internal/models"

// Selection holds at most one selected node id. The zero value is empty.
type Selection struct {
	id    models.NodeID
	valid bool
}

// Selected returns a selection holding id.
func Selected(id models.NodeID) Selection {
	return Selection{id: id, valid: true}
}

// ID returns the selected id and whether anything is selected.
func (s Selection) ID() (models.NodeID, bool) {
	return s.id, s.valid
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return !s.valid
}

// Select toggles id: selecting the current node clears the selection,
// selecting any other node replaces it.
func (s Selection) Select(id models.NodeID) Selection {
	if s.valid && s.id == id {
		return Selection{}
	}

	return Selected(id)
}

// Reconcile drops the selection when g no longer contains the selected node.
func (s Selection) Reconcile(g models.Graph) Selection {
	if s.valid && !g.Has(s.id) {
		return Selection{}
	}

	return s
}

// Clear returns the empty selection.
func (s Selection) Clear() Selection {
	return Selection{}
}

// MarshalJSON encodes the selection as the node id or null.
func (s Selection) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}

	return []byte(s.id.String()), nil
}
