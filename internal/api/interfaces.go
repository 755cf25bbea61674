package api

import (
	"context"

	"github.com/persistorai/mindmap/internal/state"
)

// Session is the view state owner used by ViewHandler and the WebSocket
// endpoint. *service.Coordinator satisfies it.
type Session interface {
	State() state.State
	Dispatch(ctx context.Context, evt state.Event) (state.State, bool, error)
}
