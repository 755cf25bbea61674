package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/persistorai/mindmap/client"
	"github.com/persistorai/mindmap/internal/domain"
	"github.com/persistorai/mindmap/internal/models"
	"github.com/persistorai/mindmap/internal/service"
	"github.com/persistorai/mindmap/internal/state"
)

// session runs a coordinator for the lifetime of one CLI command, so the
// CLI applies the same command envelope as the viewer.
type session struct {
	coord *service.Coordinator
	stop  context.CancelFunc
}

// openSession loads the graph strictly, so a down server is reported instead
// of looking like an empty mind map, then seeds a coordinator with it.
func openSession(ctx context.Context, sink domain.ExportSink) (*session, state.State, error) {
	gw := service.NewClientGateway(apiClient)
	store := service.NewGraphStore(gw, rootRule(), logger)

	g, err := loadGraph(ctx, store)
	if err != nil {
		return nil, state.State{}, err
	}

	coord := service.NewCoordinator(store, gw, sink, logger, service.WithCallTimeout(flagTimeout))

	runCtx, stop := context.WithCancel(ctx)
	go coord.Run(runCtx)

	s, _, err := coord.Dispatch(ctx, state.GraphFetched{Graph: g})
	if err != nil {
		stop()
		return nil, s, fmt.Errorf("loading graph: %w", err)
	}

	return &session{coord: coord, stop: stop}, s, nil
}

func (s *session) Close() {
	s.stop()
}

// run submits evt and waits for the command it starts to settle. A settled
// command that failed is returned as an error carrying the server's message.
func (s *session) run(ctx context.Context, evt state.Event) (state.State, error) {
	st, err := s.coord.Submit(ctx, evt)
	if err != nil {
		return st, err
	}
	if st.Error != "" {
		return st, errors.New(st.Error)
	}

	return st, nil
}

// selectNode makes id the selection. The id must be in the filtered graph.
func (s *session) selectNode(ctx context.Context, id models.NodeID) (state.State, error) {
	st := s.coord.State()
	if !st.Graph.Has(id) {
		return st, fmt.Errorf("node %d not found in the mind map", id)
	}
	if sel, ok := st.Selection.ID(); ok && sel == id {
		return st, nil
	}

	return s.run(ctx, state.NodeClicked{ID: id})
}

// fetchGraph reads the filtered graph without a coordinator.
func fetchGraph(ctx context.Context) (models.Graph, error) {
	return loadGraph(ctx, service.NewGraphStore(service.NewClientGateway(apiClient), rootRule(), logger))
}

// loadGraph refreshes store and turns a failure into the user-facing message.
func loadGraph(ctx context.Context, store *service.GraphStore) (models.Graph, error) {
	g, err := store.Refresh(ctx)
	if err != nil {
		logger.WithError(err).Debug("graph fetch failed")
		return g, errors.New(client.Message(err, client.MsgFetchFailed))
	}

	return g, nil
}
