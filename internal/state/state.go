// Package state holds the view state of the mind map client and the pure
// reducer that advances it. Nothing in this package performs I/O.
package state

import (
	"github.com/persistorai/mindmap/internal/models"
)

// State is an immutable value describing everything the renderer shows.
// Reduce never modifies its input; it returns a new State.
type State struct {
	Graph           models.Graph `json:"graph"`
	Loaded          bool         `json:"loaded"`
	Selection       Selection    `json:"selected"`
	Keyword         string       `json:"keyword"`
	Loading         bool         `json:"loading"`
	Error           string       `json:"error,omitempty"`
	Pending         Command      `json:"pending"`
	Seq             uint64       `json:"seq"`
	Settled         uint64       `json:"settled"`
	LastExport      string       `json:"last_export,omitempty"`
	LastExportNodes int          `json:"last_export_nodes,omitempty"`
}

// Initial returns the state before the first fetch.
func Initial() State {
	return State{Graph: models.EmptyGraph()}
}

// Idle reports whether no command is pending.
func (s State) Idle() bool {
	return !s.Loading
}

// Reduce maps (state, event) to the next state and the effects to run.
func Reduce(s State, e Event) (State, []Effect) {
	switch ev := e.(type) {
	case Bootstrap:
		return s, []Effect{FetchGraph{Bootstrap: true}}
	case RefreshRequested:
		return s, []Effect{FetchGraph{}}
	case NodeClicked:
		if !s.Graph.Has(ev.ID) {
			return s, nil
		}
		s.Selection = s.Selection.Select(ev.ID)
		return s, nil
	case KeywordChanged:
		s.Keyword = ev.Text
		return s, nil
	case KeywordSubmitted:
		return submitKeyword(s, ev)
	case ExportRequested:
		return exportSelected(s)
	case DeleteRequested:
		return deleteSelected(s, ev)
	case KeywordAdded:
		if !s.owns(ev.Seq, CommandAdd) {
			return s, nil
		}
		s.Keyword = ""
		return s, []Effect{FetchGraph{Seq: ev.Seq}}
	case SubtreeDeleted:
		if !s.owns(ev.Seq, CommandDelete) {
			return s, nil
		}
		s.Selection = s.Selection.Clear()
		return s, []Effect{FetchGraph{Seq: ev.Seq}}
	case SubtreeExported:
		if !s.owns(ev.Seq, CommandExport) {
			return s, nil
		}
		s.LastExport = ev.Artifact
		s.LastExportNodes = ev.Nodes
		return s.settle(ev.Seq), nil
	case CommandFailed:
		if !s.owns(ev.Seq, s.Pending) {
			return s, nil
		}
		s.Error = ev.Message
		return s.settle(ev.Seq), nil
	case GraphFetched:
		s.Graph = ev.Graph
		s.Loaded = true
		s.Selection = s.Selection.Reconcile(ev.Graph)
		if ev.Seq != 0 && s.owns(ev.Seq, s.Pending) {
			s = s.settle(ev.Seq)
		}
		return s, nil
	case GraphFetchFailed:
		return fetchFailed(s, ev), nil
	}

	return s, nil
}

func submitKeyword(s State, ev KeywordSubmitted) (State, []Effect) {
	if models.NormalizeKeyword(ev.Text) == "" || s.Loading {
		return s, nil
	}

	s.Keyword = ev.Text
	s = s.begin(CommandAdd)

	return s, []Effect{AddKeyword{Seq: s.Seq, Keyword: ev.Text}}
}

func exportSelected(s State) (State, []Effect) {
	id, ok := s.Selection.ID()
	if !ok || s.Loading {
		return s, nil
	}

	s = s.begin(CommandExport)

	return s, []Effect{ExportSubtree{Seq: s.Seq, ID: id}}
}

func deleteSelected(s State, ev DeleteRequested) (State, []Effect) {
	id, ok := s.Selection.ID()
	if !ok || !ev.Confirmed || s.Loading {
		return s, nil
	}

	s = s.begin(CommandDelete)

	return s, []Effect{DeleteSubtree{Seq: s.Seq, ID: id}}
}

func fetchFailed(s State, ev GraphFetchFailed) State {
	if ev.Bootstrap {
		s.Loaded = true
		return s
	}

	if ev.Seq != 0 && s.owns(ev.Seq, s.Pending) {
		s.Error = ev.Message
		return s.settle(ev.Seq)
	}

	if ev.Seq == 0 && !s.Loading {
		s.Error = ev.Message
	}

	return s
}

// begin enters the pending phase of a new command.
func (s State) begin(cmd Command) State {
	s.Seq++
	s.Loading = true
	s.Error = ""
	s.Pending = cmd

	return s
}

// settle leaves the pending phase of command seq.
func (s State) settle(seq uint64) State {
	s.Loading = false
	s.Pending = CommandNone
	s.Settled = seq

	return s
}

// owns reports whether a result for seq belongs to the pending command cmd.
func (s State) owns(seq uint64, cmd Command) bool {
	return s.Loading && seq == s.Seq && cmd != CommandNone && s.Pending == cmd
}
