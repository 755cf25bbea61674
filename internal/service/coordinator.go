package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/mindmap/client"
	"github.com/persistorai/mindmap/internal/domain"
	"github.com/persistorai/mindmap/internal/metrics"
	"github.com/persistorai/mindmap/internal/models"
	"github.com/persistorai/mindmap/internal/state"
)

// Coordinator defaults.
const (
	defaultQueueSize   = 64
	defaultCallTimeout = 30 * time.Second
)

// MsgSaveFailed is shown when an export was fetched but could not be stored.
const MsgSaveFailed = "Failed to save export"

// ErrStopped is returned when the coordinator's Run loop has exited.
var ErrStopped = errors.New("coordinator stopped")

type request struct {
	evt   state.Event
	reply chan applied
}

type applied struct {
	state   state.State
	started bool
}

// Coordinator owns the view state. A single goroutine (Run) applies every
// event through state.Reduce; gateway calls run on their own goroutines and
// post their results back as events, so state only ever changes on the Run
// goroutine.
type Coordinator struct {
	store   *GraphStore
	gw      domain.Gateway
	sink    domain.ExportSink
	log     *logrus.Logger
	timeout time.Duration

	requests chan request
	done     chan struct{}
	current  atomic.Pointer[state.State]
	started  map[uint64]time.Time

	mu        sync.Mutex
	watchers  map[int]chan state.State
	nextWatch int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCallTimeout bounds every gateway call so loading never hangs.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewCoordinator creates a Coordinator in the initial state.
func NewCoordinator(store *GraphStore, gw domain.Gateway, sink domain.ExportSink, log *logrus.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		gw:       gw,
		sink:     sink,
		log:      log,
		timeout:  defaultCallTimeout,
		requests: make(chan request, defaultQueueSize),
		done:     make(chan struct{}),
		started:  make(map[uint64]time.Time),
		watchers: make(map[int]chan state.State),
	}
	for _, o := range opts {
		o(c)
	}
	initial := state.Initial()
	c.current.Store(&initial)

	return c
}

// State returns the latest state.
func (c *Coordinator) State() state.State {
	return *c.current.Load()
}

// Run applies events until ctx is cancelled. In-flight gateway calls are
// not cancelled by new events; they are abandoned only when ctx ends.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			c.closeWatchers()
			return
		case req := <-c.requests:
			res := c.apply(ctx, req.evt)
			if req.reply != nil {
				req.reply <- res
			}
		}
	}
}

// Dispatch applies evt and returns the resulting state. started reports
// whether evt began a new command.
func (c *Coordinator) Dispatch(ctx context.Context, evt state.Event) (next state.State, started bool, err error) {
	reply := make(chan applied, 1)

	select {
	case c.requests <- request{evt: evt, reply: reply}:
	case <-c.done:
		return state.State{}, false, ErrStopped
	case <-ctx.Done():
		return state.State{}, false, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.state, res.started, nil
	case <-c.done:
		return state.State{}, false, ErrStopped
	case <-ctx.Done():
		return state.State{}, false, ctx.Err()
	}
}

// Submit dispatches evt and, if it started a command, blocks until that
// command settles.
func (c *Coordinator) Submit(ctx context.Context, evt state.Event) (state.State, error) {
	updates, cancel := c.Watch()
	defer cancel()

	next, started, err := c.Dispatch(ctx, evt)
	if err != nil || !started {
		return next, err
	}

	return c.waitFor(ctx, updates, next, func(s state.State) bool { return s.Settled >= next.Seq })
}

// Load performs the bootstrap fetch and waits for it to land. A failed
// bootstrap still counts as loaded, with an empty graph.
func (c *Coordinator) Load(ctx context.Context) (state.State, error) {
	updates, cancel := c.Watch()
	defer cancel()

	next, _, err := c.Dispatch(ctx, state.Bootstrap{})
	if err != nil {
		return next, err
	}

	return c.waitFor(ctx, updates, next, func(s state.State) bool { return s.Loaded })
}

func (c *Coordinator) waitFor(ctx context.Context, updates <-chan state.State, s state.State, ok func(state.State) bool) (state.State, error) {
	for !ok(s) {
		select {
		case next, open := <-updates:
			if !open {
				return s, ErrStopped
			}
			s = next
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}

	return s, nil
}

// Watch subscribes to state changes. Slow watchers only see the latest
// state. The returned func unsubscribes.
func (c *Coordinator) Watch() (<-chan state.State, func()) {
	ch := make(chan state.State, 1)

	c.mu.Lock()
	id := c.nextWatch
	c.nextWatch++
	c.watchers[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.watchers[id]; ok {
				delete(c.watchers, id)
				close(ch)
			}
		})
	}
}

func (c *Coordinator) publish(s state.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range c.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

func (c *Coordinator) closeWatchers() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, ch := range c.watchers {
		delete(c.watchers, id)
		close(ch)
	}
}

// apply runs on the Run goroutine only.
func (c *Coordinator) apply(ctx context.Context, evt state.Event) applied {
	prev := c.State()
	next, effects := state.Reduce(prev, evt)

	c.observe(prev, next)
	c.current.Store(&next)
	c.publish(next)

	for _, eff := range effects {
		go c.execute(ctx, eff)
	}

	return applied{state: next, started: next.Seq > prev.Seq}
}

// observe logs and records command transitions.
func (c *Coordinator) observe(prev, next state.State) {
	if next.Seq > prev.Seq {
		c.started[next.Seq] = time.Now()
		c.log.WithFields(logrus.Fields{
			"command": next.Pending,
			"seq":     next.Seq,
		}).Info("command started")
	}

	if next.Settled > prev.Settled {
		outcome := "success"
		if next.Error != "" {
			outcome = "failure"
		}
		cmd := string(prev.Pending)
		metrics.CommandsTotal.WithLabelValues(cmd, outcome).Inc()

		fields := logrus.Fields{"command": cmd, "seq": next.Settled, "outcome": outcome}
		if t, ok := c.started[next.Settled]; ok {
			elapsed := time.Since(t)
			metrics.CommandDuration.WithLabelValues(cmd).Observe(elapsed.Seconds())
			fields["duration"] = elapsed.String()
			delete(c.started, next.Settled)
		}
		if next.Error != "" {
			fields["error"] = next.Error
		} else if prev.Pending == state.CommandExport {
			fields["artifact"] = next.LastExport
			fields["nodes"] = next.LastExportNodes
		}
		c.log.WithFields(fields).Info("command settled")
	}
}

// post delivers a result event to the Run goroutine.
func (c *Coordinator) post(ctx context.Context, evt state.Event) {
	select {
	case c.requests <- request{evt: evt}:
	case <-ctx.Done():
	}
}

func (c *Coordinator) execute(ctx context.Context, eff state.Effect) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	switch e := eff.(type) {
	case state.FetchGraph:
		c.post(ctx, c.fetchGraph(callCtx, e))
	case state.AddKeyword:
		if err := c.gw.AddKeyword(callCtx, e.Keyword); err != nil {
			c.post(ctx, c.failed(e.Seq, err, client.MsgAddFailed))
			return
		}
		c.post(ctx, state.KeywordAdded{Seq: e.Seq})
	case state.ExportSubtree:
		c.post(ctx, c.exportSubtree(callCtx, e))
	case state.DeleteSubtree:
		if err := c.gw.DeleteSubtree(callCtx, e.ID); err != nil {
			c.post(ctx, c.failed(e.Seq, err, client.MsgDeleteFailed))
			return
		}
		c.post(ctx, state.SubtreeDeleted{Seq: e.Seq, ID: e.ID})
	}
}

func (c *Coordinator) fetchGraph(ctx context.Context, e state.FetchGraph) state.Event {
	g, err := c.store.Refresh(ctx)
	if err == nil {
		return state.GraphFetched{Seq: e.Seq, Graph: g}
	}

	entry := c.log.WithError(err).WithField("seq", e.Seq)
	if e.Bootstrap {
		entry.Warn("initial graph load failed, starting with an empty graph")
	} else {
		entry.Warn("graph refresh failed, keeping previous snapshot")
	}

	return state.GraphFetchFailed{
		Seq:       e.Seq,
		Bootstrap: e.Bootstrap,
		Message:   client.Message(err, client.MsgFetchFailed),
	}
}

func (c *Coordinator) exportSubtree(ctx context.Context, e state.ExportSubtree) state.Event {
	doc, err := c.gw.ExportSubtree(ctx, e.ID)
	if err != nil {
		return c.failed(e.Seq, err, client.MsgExportFailed)
	}

	artifact, err := c.sink.Save(ctx, e.ID, doc)
	if err != nil {
		c.log.WithError(err).WithField("node_id", e.ID).Error("saving export")

		return state.CommandFailed{Seq: e.Seq, Message: MsgSaveFailed}
	}

	count := 0
	if tree, err := models.DecodeExport(doc); err == nil {
		count = tree.Count()
	} else {
		c.log.WithError(err).WithField("node_id", e.ID).Warn("export saved but its tree could not be counted")
	}

	return state.SubtreeExported{Seq: e.Seq, ID: e.ID, Artifact: artifact, Nodes: count}
}

func (c *Coordinator) failed(seq uint64, err error, fallback string) state.CommandFailed {
	c.log.WithError(err).WithField("seq", seq).Warn("gateway call failed")

	return state.CommandFailed{Seq: seq, Message: client.Message(err, fallback)}
}
