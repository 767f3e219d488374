// Package cli implements the pcbgraph command-line interface.
//
// This package provides commands for inspecting netlist graphs exported
// from PCB designs: wirelength, placement progress and ordering, feature
// vector encoding, reference optimals, and exports to graph, drawing and
// spreadsheet formats. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - stats, hpwl: Describe a design and its wirelength
//   - features: Encode feature vectors (cached between runs)
//   - next, place, prune: Drive and edit placement
//   - optimals: Measure and store reference optimals
//   - export: Write DOT, GML, SVG, PNG, PDF, DXF, JSON, XLSX or records
//   - browse: Interactive component browser
//   - serve: HTTP API over placement sessions
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Configuration
//
// Defaults are read from pcbgraph.toml in the working directory, or the
// file named by --config. Flags override config values.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Encoded 42 components (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// loggingHooks reports graph and cache events at debug level. It is
// registered in verbose mode.
type loggingHooks struct {
	logger *log.Logger
}

func (h *loggingHooks) OnLoad(_ context.Context, design string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "design", design, "err", err)
		return
	}
	h.logger.Debug("load", "design", design, "nodes", nodes, "edges", edges, "elapsed", d)
}

func (h *loggingHooks) OnHPWL(_ context.Context, scope string, value float64, d time.Duration) {
	h.logger.Debug("hpwl", "scope", scope, "value", value, "elapsed", d)
}

func (h *loggingHooks) OnPlace(_ context.Context, id, placed, total int) {
	h.logger.Debug("placed", "id", id, "placed", placed, "total", total)
}

func (h *loggingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *loggingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *loggingHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
