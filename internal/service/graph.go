package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/mindmap/internal/domain"
	"github.com/persistorai/mindmap/internal/metrics"
	"github.com/persistorai/mindmap/internal/models"
)

// GraphStore fetches and filters the graph and caches the last successful
// snapshot. Snapshots are swapped whole, so readers never observe a partially
// filtered graph. The coordinator's view state is what renderers see; the
// store's copy only answers Snapshot and failed refreshes.
type GraphStore struct {
	fetcher domain.GraphFetcher
	rule    models.RootRule
	current atomic.Pointer[models.Graph]
	log     *logrus.Logger
}

// NewGraphStore creates a GraphStore holding the empty graph.
func NewGraphStore(fetcher domain.GraphFetcher, rule models.RootRule, log *logrus.Logger) *GraphStore {
	s := &GraphStore{fetcher: fetcher, rule: rule, log: log}
	empty := models.EmptyGraph()
	s.current.Store(&empty)

	return s
}

// Snapshot returns the last successfully fetched filtered snapshot.
func (s *GraphStore) Snapshot() models.Graph {
	return *s.current.Load()
}

// Refresh fetches and filters the graph, then replaces the snapshot. On
// failure the previous snapshot is kept and returned with the error.
func (s *GraphStore) Refresh(ctx context.Context) (models.Graph, error) {
	raw, err := s.fetcher.FetchGraph(ctx)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("failure").Inc()

		return s.Snapshot(), fmt.Errorf("fetch graph: %w", err)
	}

	g := s.rule.Filter(*raw)
	s.current.Store(&g)

	metrics.RefreshesTotal.WithLabelValues("success").Inc()
	metrics.NodeCount.Set(float64(len(g.Nodes)))
	metrics.LinkCount.Set(float64(len(g.Links)))

	s.log.WithFields(logrus.Fields{
		"nodes":     len(g.Nodes),
		"links":     len(g.Links),
		"raw_nodes": len(raw.Nodes),
		"raw_links": len(raw.Links),
	}).Debug("graph.refresh")

	return g, nil
}
