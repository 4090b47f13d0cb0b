package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/turing/pkg/domain"
)

// TextReporter prints a human readable summary, and optionally every tick.
type TextReporter struct {
	Writer io.Writer

	// Trace prints one line per tick.
	Trace bool
}

// TextReporterOption defines configuration for TextReporter.
type TextReporterOption func(*TextReporter)

// WithTrace enables per-tick lines.
func WithTrace(trace bool) TextReporterOption {
	return func(r *TextReporter) {
		r.Trace = trace
	}
}

// NewTextReporter creates a reporter writing to w (Stdout when nil).
func NewTextReporter(w io.Writer, opts ...TextReporterOption) *TextReporter {
	if w == nil {
		w = os.Stdout
	}
	r := &TextReporter{Writer: w}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TextReporter) Tick(ctx context.Context, t domain.Transition) error {
	if !r.Trace {
		return nil
	}
	_, err := fmt.Fprintf(r.Writer, "%6d  %4d  %s %c -> %s\n",
		t.Tick, t.Position-domain.TapeSize/2, t.From, t.Read.Glyph(), t.Rule)
	return err
}

func (r *TextReporter) Finish(ctx context.Context, rec *domain.RunRecord) error {
	_, err := fmt.Fprintf(r.Writer,
		"run %s: %s after %d ticks (total %d)\nstate: %s  head: %d  non-blank cells: %d  duration: %s\n",
		rec.ID, rec.Reason, rec.Ticks, rec.TotalTicks,
		rec.FinalState, rec.Position-domain.TapeSize/2, rec.NonBlank, rec.Duration)
	return err
}
