package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/nsitu/artasia-atlas/internal/graph"
	"github.com/nsitu/artasia-atlas/internal/logger"
	"github.com/nsitu/artasia-atlas/internal/metrics"
	"github.com/nsitu/artasia-atlas/internal/parser"
	"github.com/nsitu/artasia-atlas/internal/sites"
)

// loadGraph reads a dataset, normalizes every row and builds the graph.
// The raw rows are returned alongside for reporting. m may be nil.
func loadGraph(ctx context.Context, location string, m *metrics.Manager) (*graph.Graph, []sites.RawRecord, error) {
	log := logger.Named("pipeline")

	rows, err := parser.Load(ctx, location, httpTimeout())
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset %s: %w", location, err)
	}
	log.Debug(ctx, "dataset parsed", logger.String("source", location), logger.Int("rows", len(rows)))

	g, took := normalizeAndBuild(rows)

	st := g.Stats()
	if m != nil {
		m.RecordRows(len(rows))
		m.RecordBuild(st, took)
	}
	log.Info(ctx, "graph built",
		logger.Int("nodes", st.Nodes),
		logger.Int("edges", st.Edges),
		logger.Int("groups", st.Groups),
		logger.Int("unavailable_edges", st.UnavailableEdges),
		logger.Duration("took", took),
	)
	if unlocated := st.Nodes - st.LocatedNodes; unlocated > 0 {
		log.Warn(ctx, "sites without usable GPS", logger.Int("count", unlocated))
	}
	return g, rows, nil
}

// normalizeAndBuild turns raw rows into a graph and reports how long both
// steps took together.
func normalizeAndBuild(rows []sites.RawRecord) (*graph.Graph, time.Duration) {
	start := time.Now()
	g := graph.Build(sites.NormalizeAll(rows))
	return g, time.Since(start)
}

// writeMetrics flushes m to path when a path is configured.
func writeMetrics(ctx context.Context, m *metrics.Manager, path string) error {
	if path == "" {
		return nil
	}
	if err := m.WriteTextfile(path); err != nil {
		return err
	}
	logger.Named("metrics").Debug(ctx, "metrics written", logger.String("path", path))
	return nil
}
