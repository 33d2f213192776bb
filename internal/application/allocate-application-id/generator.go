// internal/application/allocate-application-id/generator.go
package allocateapplicationid

import (
	"context"
	"fmt"
	"time"

	"internship-portal/internal/common/logger"
	"internship-portal/internal/common/metrics"
)

const DefaultPrefix = "INT"

// Formatter renders sequence values as public identifiers.
type Formatter struct {
	Prefix string
}

// Format returns "<prefix>-<year>-<seq>" with seq zero-padded to at least four
// digits. Larger values are printed in full.
func (f Formatter) Format(year int, seq int64) string {
	prefix := f.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// Clock returns the current time. Tests substitute a fixed instant.
type Clock func() time.Time

// Generator combines an Allocator and a Formatter. The counter is global; the
// year only affects the rendered identifier.
type Generator struct {
	allocator Allocator
	formatter Formatter
	config    *Config
	clock     Clock
	logger    logger.Logger
}

func NewGenerator(cfg *Config, allocator Allocator, log logger.Logger) *Generator {
	return &Generator{
		allocator: allocator,
		formatter: Formatter{Prefix: cfg.Prefix},
		config:    cfg,
		clock:     time.Now,
		logger:    log.WithFields(map[string]interface{}{"component": "id-generator", "backend": cfg.Backend}),
	}
}

// WithClock replaces the time source.
func (g *Generator) WithClock(clock Clock) *Generator {
	g.clock = clock
	return g
}

// Next allocates the next sequence value and formats it.
func (g *Generator) Next(ctx context.Context) (string, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	seq, err := g.allocator.AllocateNext(ctx, g.config.CounterName)
	if err != nil {
		metrics.IDAllocationFailures.WithLabelValues(g.config.Backend).Inc()
		g.logger.Error("sequence allocation failed", map[string]interface{}{
			"counter": g.config.CounterName,
			"error":   err,
		})
		return "", err
	}
	metrics.IDAllocationsTotal.WithLabelValues(g.config.Backend).Inc()

	id := g.formatter.Format(g.clock().Year(), seq)
	g.logger.Debug("application id allocated", map[string]interface{}{
		"counter":       g.config.CounterName,
		"sequence":      seq,
		"applicationId": id,
	})
	return id, nil
}

// Reset drops the counter so the next identifier uses sequence 1.
func (g *Generator) Reset(ctx context.Context) error {
	return g.allocator.Reset(ctx, g.config.CounterName)
}
