package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/aretw0/turing/pkg/domain"
)

// JSONReporter emits JSON-Lines: one "tick" line per tick when tracing,
// then one "result" line.
type JSONReporter struct {
	Encoder *json.Encoder
	Trace   bool
}

type jsonLine struct {
	Type       string             `json:"type"`
	Transition *domain.Transition `json:"transition,omitempty"`
	Record     *domain.RunRecord  `json:"record,omitempty"`
}

// NewJSONReporter creates a reporter writing to w (Stdout when nil).
func NewJSONReporter(w io.Writer, trace bool) *JSONReporter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONReporter{
		Encoder: json.NewEncoder(w),
		Trace:   trace,
	}
}

func (r *JSONReporter) Tick(ctx context.Context, t domain.Transition) error {
	if !r.Trace {
		return nil
	}
	return r.Encoder.Encode(jsonLine{Type: "tick", Transition: &t})
}

func (r *JSONReporter) Finish(ctx context.Context, rec *domain.RunRecord) error {
	return r.Encoder.Encode(jsonLine{Type: "result", Record: rec})
}
