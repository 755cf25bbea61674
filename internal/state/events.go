package state

import (
	"encoding/json"

	"github.com/persistorai/mindmap/internal/models"
)

// Event is anything the reducer reacts to: user input from the renderer or
// the CLI, and results posted back by effect execution.
type Event interface {
	event()
}

// Bootstrap requests the initial graph load.
type Bootstrap struct{}

// NodeClicked toggles the selection of a node.
type NodeClicked struct {
	ID models.NodeID
}

// KeywordChanged updates the keyword input field.
type KeywordChanged struct {
	Text string
}

// KeywordSubmitted asks the server to expand Text into a new subtree.
type KeywordSubmitted struct {
	Text string
}

// ExportRequested exports the subtree of the selected node.
type ExportRequested struct{}

// DeleteRequested deletes the subtree of the selected node. Confirmed must
// carry the user's explicit confirmation.
type DeleteRequested struct {
	Confirmed bool
}

// RefreshRequested re-reads the graph outside any command.
type RefreshRequested struct{}

// KeywordAdded reports that the server accepted a keyword.
type KeywordAdded struct {
	Seq uint64
}

// SubtreeExported reports that an export was fetched and saved.
type SubtreeExported struct {
	Seq      uint64
	ID       models.NodeID
	Artifact string
	Nodes    int
}

// SubtreeDeleted reports that the server removed a subtree.
type SubtreeDeleted struct {
	Seq uint64
	ID  models.NodeID
}

// CommandFailed reports a gateway failure for command Seq.
type CommandFailed struct {
	Seq     uint64
	Message string
}

// GraphFetched delivers a new filtered snapshot. Seq is the command that
// caused the fetch, or 0 for bootstrap and manual refreshes.
type GraphFetched struct {
	Seq   uint64
	Graph models.Graph
}

// GraphFetchFailed reports a failed fetch. The previous snapshot stays.
type GraphFetchFailed struct {
	Seq       uint64
	Bootstrap bool
	Message   string
}

func (Bootstrap) event()        {}
func (NodeClicked) event()      {}
func (KeywordChanged) event()   {}
func (KeywordSubmitted) event() {}
func (ExportRequested) event()  {}
func (DeleteRequested) event()  {}
func (RefreshRequested) event() {}
func (KeywordAdded) event()     {}
func (SubtreeExported) event()  {}
func (SubtreeDeleted) event()   {}
func (CommandFailed) event()    {}
func (GraphFetched) event()     {}
func (GraphFetchFailed) event() {}

// Effect is a side effect the reducer asks the runtime to perform. Each
// effect reports back with exactly one result event.
type Effect interface {
	effect()
}

// FetchGraph re-reads and filters the graph.
type FetchGraph struct {
	Seq       uint64
	Bootstrap bool
}

// AddKeyword calls the server's add endpoint.
type AddKeyword struct {
	Seq     uint64
	Keyword string
}

// ExportSubtree fetches a subtree document and hands it to the export sink.
type ExportSubtree struct {
	Seq uint64
	ID  models.NodeID
}

// DeleteSubtree calls the server's delete endpoint.
type DeleteSubtree struct {
	Seq uint64
	ID  models.NodeID
}

func (FetchGraph) effect()    {}
func (AddKeyword) effect()    {}
func (ExportSubtree) effect() {}
func (DeleteSubtree) effect() {}

// Command names the mutating command that owns the envelope.
type Command string

// Commands.
const (
	CommandNone   Command = ""
	CommandAdd    Command = "add_keyword"
	CommandExport Command = "export_subtree"
	CommandDelete Command = "delete_subtree"
)

// MarshalJSON encodes CommandNone as null.
func (c Command) MarshalJSON() ([]byte, error) {
	if c == CommandNone {
		return []byte("null"), nil
	}

	return json.Marshal(string(c))
}
