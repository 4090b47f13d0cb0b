package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxTicks bounds a single /run request and a single /advance batch.
const DefaultMaxTicks = 100_000

// errRejected marks edits the engine refused (no-op).
var errRejected = errors.New("edit rejected")

// Server exposes the machines of a session.Manager over REST and SSE.
type Server struct {
	Machines *session.Manager
	Streams  *StreamManager

	store    ports.RunStore
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	maxTicks int
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStore enables run persistence and the /runs endpoints.
func WithStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithMetrics records finished runs and the live machine count.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithGatherer serves g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithMaxTicks overrides DefaultMaxTicks.
func WithMaxTicks(n int) Option {
	return func(s *Server) {
		s.maxTicks = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server over machines.
func NewServer(machines *session.Manager, opts ...Option) *Server {
	s := &Server{
		Machines: machines,
		maxTicks: DefaultMaxTicks,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxTicks <= 0 {
		s.maxTicks = DefaultMaxTicks
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a new HTTP handler for the machines.
func NewHandler(machines *session.Manager, opts ...Option) http.Handler {
	return NewServer(machines, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Post("/", s.CreateMachine)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetMachine)
			r.Delete("/", s.DeleteMachine)
			r.Post("/step", s.Step)
			r.Post("/move", s.Move)
			r.Post("/advance", s.Advance)
			r.Post("/run", s.Run)
			r.Post("/reset", s.Reset)
			r.Put("/tape/{pos}", s.WriteCell)
			r.Post("/tape/{pos}/cycle", s.CycleCell)
			r.Put("/head", s.SetHead)
			r.Put("/rules/{state}/{symbol}", s.SetRule)
			r.Post("/rules/{state}/{symbol}/{field}/cycle", s.CycleRule)
			r.Get("/graph", s.GetGraph)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	r.Get("/runs", s.ListRuns)
	r.Get("/runs/{id}", s.GetRun)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":         "turing-http",
		"version":     turing.Version(),
		"tape_size":   domain.TapeSize,
		"states":      domain.NumStates,
		"symbols":     domain.NumSymbols,
		"max_ticks":   s.maxTicks,
		"run_history": s.store != nil,
	})
}

type createRequest struct {
	Random bool `json:"random"`
}

type stepResponse struct {
	Applied    bool               `json:"applied"`
	Transition *domain.Transition `json:"transition,omitempty"`
	Machine    domain.Snapshot    `json:"machine"`
}

type advanceResponse struct {
	Ticks   int             `json:"ticks"`
	Halted  bool            `json:"halted"`
	Machine domain.Snapshot `json:"machine"`
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"machines": s.Machines.List(r.Context())})
}

// CreateMachine handles POST /machines. The body is optional.
func (s *Server) CreateMachine(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if !decodeOptional(w, r, &body) {
		return
	}

	id, err := s.Machines.Create(r.Context(), body.Random)
	if err != nil {
		s.fail(w, "CreateMachine", err)
		return
	}
	s.updateLive()

	snap, err := s.Machines.Get(r.Context(), id)
	if err != nil {
		s.fail(w, "CreateMachine", err)
		return
	}
	w.Header().Set("Location", "/machines/"+id)
	writeJSON(w, http.StatusCreated, snap)
}

// GetMachine handles GET /machines/{id}.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Machines.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetMachine", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetGraph handles GET /machines/{id}/graph: the rule table as a Mermaid
// flowchart with the head state highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Machines.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetGraph", err)
		return
	}
	out := graph.GenerateMermaid(snap.Rules, &graph.GraphOverlay{CurrentState: snap.State, CurrentSet: true})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

// DeleteMachine handles DELETE /machines/{id}.
func (s *Server) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	if err := s.Machines.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteMachine", err)
		return
	}
	s.updateLive()
	w.WriteHeader(http.StatusNoContent)
}

// Step handles POST /machines/{id}/step: one rule application, no move.
func (s *Server) Step(w http.ResponseWriter, r *http.Request) {
	var resp stepResponse
	snap, err := s.mutate(r.Context(), chi.URLParam(r, "id"), func(e *turing.Engine) error {
		if t, ok := e.Step(); ok {
			resp.Applied = true
			resp.Transition = &t
		}
		return nil
	})
	if err != nil {
		s.fail(w, "Step", err)
		return
	}
	resp.Machine = snap
	writeJSON(w, statusFor(resp.Applied), resp)
}

// Move handles POST /machines/{id}/move.
func (s *Server) Move(w http.ResponseWriter, r *http.Request) {
	var resp stepResponse
	snap, err := s.mutate(r.Context(), chi.URLParam(r, "id"), func(e *turing.Engine) error {
		resp.Applied = e.Move()
		return nil
	})
	if err != nil {
		s.fail(w, "Move", err)
		return
	}
	resp.Machine = snap
	writeJSON(w, statusFor(resp.Applied), resp)
}

// Advance handles POST /machines/{id}/advance?count=N.
// It stops early when the machine halts.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	count := 1
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > s.maxTicks {
			writeError(w, http.StatusBadRequest, fmt.Errorf("count must be between 1 and %d", s.maxTicks))
			return
		}
		count = n
	}

	var resp advanceResponse
	snap, err := s.mutate(r.Context(), chi.URLParam(r, "id"), func(e *turing.Engine) error {
		for i := 0; i < count; i++ {
			t, ok := e.Advance()
			if !ok {
				break
			}
			resp.Ticks++
			if t.Halted {
				break
			}
		}
		resp.Halted = e.Halted()
		return nil
	})
	if err != nil {
		s.fail(w, "Advance", err)
		return
	}
	resp.Machine = snap
	writeJSON(w, statusFor(resp.Ticks > 0), resp)
}

type runRequest struct {
	MaxTicks int `json:"max_ticks"`
}

// Run handles POST /machines/{id}/run: ticks without delay until the
// machine halts or the tick budget is spent. The machine stays locked
// for the whole run.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var body runRequest
	if !decodeOptional(w, r, &body) {
		return
	}
	limit := s.maxTicks
	if body.MaxTicks > 0 && body.MaxTicks < limit {
		limit = body.MaxTicks
	}

	id := chi.URLParam(r, "id")
	rn := runner.NewRunner(
		runner.WithMaxTicks(limit),
		runner.WithStore(s.store),
		runner.WithLogger(s.logger),
	)

	var rec *domain.RunRecord
	_, err := s.mutate(r.Context(), id, func(e *turing.Engine) error {
		if e.Halted() {
			return domain.ErrHalted
		}
		var err error
		rec, err = rn.Run(r.Context(), e)
		return err
	})
	if err != nil {
		s.fail(w, "Run", err)
		return
	}

	if s.metrics != nil {
		s.metrics.ObserveRun(rec)
	}
	s.publish(id, event{Type: "run", Run: rec})
	writeJSON(w, http.StatusOK, rec)
}

// Reset handles POST /machines/{id}/reset. The body is optional.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if !decodeOptional(w, r, &body) {
		return
	}
	snap, err := s.mutate(r.Context(), chi.URLParam(r, "id"), func(e *turing.Engine) error {
		e.Reset(body.Random)
		return nil
	})
	if err != nil {
		s.fail(w, "Reset", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type cellRequest struct {
	Symbol domain.Symbol `json:"symbol"`
}

// WriteCell handles PUT /machines/{id}/tape/{pos}. Positions wrap around the tape.
func (s *Server) WriteCell(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid position: %w", err))
		return
	}
	var body cellRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.edit(w, r, "WriteCell", func(e *turing.Engine) bool {
		return e.WriteCell(pos, body.Symbol)
	})
}

// CycleCell handles POST /machines/{id}/tape/{pos}/cycle.
func (s *Server) CycleCell(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid position: %w", err))
		return
	}
	s.edit(w, r, "CycleCell", func(e *turing.Engine) bool {
		return e.CycleCell(pos)
	})
}

type headRequest struct {
	Position *int `json:"position"`
}

// SetHead handles PUT /machines/{id}/head.
func (s *Server) SetHead(w http.ResponseWriter, r *http.Request) {
	var body headRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Position == nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body: position is required"))
		return
	}
	if !domain.InRange(*body.Position) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %d", domain.ErrPositionOutOfRange, *body.Position))
		return
	}
	s.edit(w, r, "SetHead", func(e *turing.Engine) bool {
		return e.SetPosition(*body.Position)
	})
}

// SetRule handles PUT /machines/{id}/rules/{state}/{symbol}.
func (s *Server) SetRule(w http.ResponseWriter, r *http.Request) {
	state, sym, ok := ruleKey(w, r)
	if !ok {
		return
	}
	var rule domain.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.edit(w, r, "SetRule", func(e *turing.Engine) bool {
		return e.SetRule(state, sym, rule)
	})
}

// CycleRule handles POST /machines/{id}/rules/{state}/{symbol}/{field}/cycle.
func (s *Server) CycleRule(w http.ResponseWriter, r *http.Request) {
	state, sym, ok := ruleKey(w, r)
	if !ok {
		return
	}
	field, err := domain.ParseRuleField(chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.edit(w, r, "CycleRule", func(e *turing.Engine) bool {
		return e.CycleRule(state, sym, field)
	})
}

func ruleKey(w http.ResponseWriter, r *http.Request) (domain.State, domain.Symbol, bool) {
	state, err := domain.ParseState(chi.URLParam(r, "state"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return 0, 0, false
	}
	sym, err := domain.ParseSymbol(chi.URLParam(r, "symbol"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return 0, 0, false
	}
	if !state.IsWorking() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("halting state %s has no rules", state))
		return 0, 0, false
	}
	return state, sym, true
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request, op string, fn func(*turing.Engine) bool) {
	snap, err := s.mutate(r.Context(), chi.URLParam(r, "id"), func(e *turing.Engine) error {
		if !fn(e) {
			return errRejected
		}
		return nil
	})
	if err != nil {
		s.fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// mutate runs fn under the machine lock and broadcasts what changed.
func (s *Server) mutate(ctx context.Context, id string, fn func(*turing.Engine) error) (domain.Snapshot, error) {
	var prev, next domain.Snapshot
	err := s.Machines.Do(ctx, id, func(e *turing.Engine) error {
		prev = e.Snapshot()
		if err := fn(e); err != nil {
			return err
		}
		next = e.Snapshot()
		return nil
	})
	if err != nil {
		return next, err
	}

	if diff := domain.Diff(&prev, &next); diff != nil {
		s.publish(id, event{Type: "diff", Diff: diff})
	}
	return next, nil
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, errors.New("run history is disabled"))
		return
	}
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, "ListRuns", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": ids})
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, errors.New("run history is disabled"))
		return
	}
	rec, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetRun", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// event is the payload of one SSE message.
type event struct {
	Type string               `json:"type"`
	Diff *domain.SnapshotDiff `json:"diff,omitempty"`
	Run  *domain.RunRecord    `json:"run,omitempty"`
}

func (s *Server) publish(id string, ev event) {
	if s.Streams.Subscribers(id) == 0 {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("failed to encode event", "err", err, domain.KeyMachineID, id)
		return
	}
	s.Streams.Broadcast(id, string(data))
}

// SubscribeEvents handles GET /machines/{id}/events (SSE).
// The optional watch parameter (comma separated: status, head, tape, rules)
// drops diffs that touch none of the listed parts. Run events always pass.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.Machines.Get(r.Context(), id); err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}

	var watchList []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			watchList = append(watchList, strings.TrimSpace(field))
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	s.logger.Info("SSE: Subscribing to machine updates", domain.KeyMachineID, id)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", domain.KeyMachineID, id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !watched(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func watched(msg string, watchList []string) bool {
	var ev event
	if err := json.Unmarshal([]byte(msg), &ev); err != nil || ev.Diff == nil {
		return true
	}
	d := ev.Diff
	for _, field := range watchList {
		switch field {
		case "status":
			if d.Status != nil || d.Halted != nil || d.Ticks != nil {
				return true
			}
		case "head":
			if d.Position != nil || d.State != nil || d.Direction != nil {
				return true
			}
		case "tape":
			if len(d.Cells) > 0 {
				return true
			}
		case "rules":
			if len(d.Rules) > 0 {
				return true
			}
		}
	}
	return false
}

func (s *Server) updateLive() {
	if s.metrics != nil {
		s.metrics.LiveMachines.Set(float64(s.Machines.Len()))
	}
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrMachineNotFound), errors.Is(err, domain.ErrRunNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrHalted):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, errRejected):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		s.logger.Error(op+" failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

// statusFor reports a no-op on a halted machine as 409.
func statusFor(applied bool) int {
	if applied {
		return http.StatusOK
	}
	return http.StatusConflict
}

// decodeOptional decodes a JSON body when one was sent.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
