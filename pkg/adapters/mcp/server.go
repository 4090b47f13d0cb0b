package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MaxAdvance bounds the ticks of one advance call.
const MaxAdvance = 100_000

// MachineView is the compact machine summary returned by every tool.
// The full tape is replaced by a window around the head.
type MachineView struct {
	ID         string           `json:"id" jsonschema_description:"Machine ID"`
	Status     domain.RunStatus `json:"status" jsonschema_description:"ready, running or halted"`
	Ticks      int              `json:"ticks" jsonschema_description:"Ticks taken since the last reset"`
	Position   int              `json:"position" jsonschema_description:"Head position in [0, 1024)"`
	State      domain.State     `json:"state" jsonschema_description:"Head state: a-p, halt, accept or reject"`
	Direction  domain.Direction `json:"direction" jsonschema_description:"Pending move direction"`
	Window     string           `json:"window" jsonschema_description:"Tape glyphs from position-16 to position+16"`
	NonBlank   int              `json:"non_blank" jsonschema_description:"Number of non-blank tape cells"`
	Rule       string           `json:"rule,omitempty" jsonschema_description:"Rule the next step applies, as next/write/move glyphs"`
	Randomized bool             `json:"randomized"`
	Seed       uint64           `json:"seed"`
}

// AdvanceResult reports a batch of ticks.
type AdvanceResult struct {
	Machine MachineView `json:"machine"`
	Applied int         `json:"applied" jsonschema_description:"Ticks actually applied"`
	Halted  bool        `json:"halted"`
}

const windowRadius = 16

func viewOf(e *turing.Engine) MachineView {
	snap := e.Snapshot()
	window := make([]rune, 0, 2*windowRadius+1)
	for i := -windowRadius; i <= windowRadius; i++ {
		window = append(window, snap.Tape.Read(snap.Position+i).Glyph())
	}
	v := MachineView{
		ID:         snap.ID,
		Status:     snap.Status,
		Ticks:      snap.Ticks,
		Position:   snap.Position,
		State:      snap.State,
		Direction:  snap.Direction,
		Window:     string(window),
		NonBlank:   e.NonBlank(),
		Randomized: e.Randomized(),
		Seed:       e.Seed(),
	}
	if rule, ok := snap.CurrentRule(); ok {
		v.Rule = rule.String()
	}
	return v
}

// Server exposes the machines of a session.Manager as MCP tools.
type Server struct {
	machines  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
	tools     []string
}

// NewServer creates a new MCP Server instance.
func NewServer(machines *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		machines:  machines,
		logger:    logger,
		mcpServer: server.NewMCPServer("turing-mcp", turing.Version()),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Tools returns the registered tool names.
func (s *Server) Tools() []string {
	return s.tools
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	r := chi.NewRouter()
	r.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	r.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
	s.tools = append(s.tools, tool.Name)
}

func (s *Server) registerTools() {
	s.addTool(mcp.NewTool("create_machine",
		mcp.WithDescription("Create a machine. The default table maps every rule to 'a . l' (stay in a, write blank, move left); random draws every rule."),
		mcp.WithBoolean("random", mcp.Description("Draw a random transition table")),
		mcp.WithOutputSchema[MachineView](),
	), mcp.NewStructuredToolHandler(s.handleCreate))

	s.addTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the IDs of live machines."),
	), s.handleList)

	s.addTool(mcp.NewTool("get_machine",
		mcp.WithDescription("Show a machine: head, state, tape window and the rule it applies next."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Machine ID")),
		mcp.WithOutputSchema[MachineView](),
	), mcp.NewStructuredToolHandler(s.handleGet))

	s.addTool(mcp.NewTool("advance",
		mcp.WithDescription("Advance a machine by whole ticks (step, then move). Stops early on a halting state."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Machine ID")),
		mcp.WithNumber("count", mcp.Description("Ticks to take, 1 by default")),
		mcp.WithOutputSchema[AdvanceResult](),
	), mcp.NewStructuredToolHandler(s.handleAdvance))

	s.addTool(mcp.NewTool("reset_machine",
		mcp.WithDescription("Reset a machine: blank tape, head centred in state a, fresh table."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Machine ID")),
		mcp.WithBoolean("random", mcp.Description("Draw a random transition table")),
		mcp.WithOutputSchema[MachineView](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	s.addTool(mcp.NewTool("cycle_rule",
		mcp.WithDescription("Cycle one field of the rule for (state, symbol)."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Machine ID")),
		mcp.WithString("state", mcp.Required(), mcp.Description("Working state a-p")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Symbol glyph (. X $ & 0 1) or name")),
		mcp.WithString("field", mcp.Required(), mcp.Enum("next", "write", "move"), mcp.Description("Rule field to cycle")),
		mcp.WithOutputSchema[MachineView](),
	), mcp.NewStructuredToolHandler(s.handleCycleRule))

	s.addTool(mcp.NewTool("write_cell",
		mcp.WithDescription("Overwrite a tape cell. Positions wrap around the tape."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Machine ID")),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Tape position")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Symbol glyph (. X $ & 0 1) or name")),
		mcp.WithOutputSchema[MachineView](),
	), mcp.NewStructuredToolHandler(s.handleWriteCell))

	s.addTool(mcp.NewTool("set_head",
		mcp.WithDescription("Park the head on a tape cell in [0, 1024)."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Machine ID")),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Tape position")),
		mcp.WithOutputSchema[MachineView](),
	), mcp.NewStructuredToolHandler(s.handleSetHead))
}

type createArgs struct {
	Random bool `json:"random"`
}

type machineArgs struct {
	ID string `json:"id"`
}

type advanceArgs struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

type resetArgs struct {
	ID     string `json:"id"`
	Random bool   `json:"random"`
}

type cycleRuleArgs struct {
	ID     string `json:"id"`
	State  string `json:"state"`
	Symbol string `json:"symbol"`
	Field  string `json:"field"`
}

type cellArgs struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Symbol   string `json:"symbol"`
}

type headArgs struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

func (s *Server) handleCreate(ctx context.Context, _ mcp.CallToolRequest, args createArgs) (MachineView, error) {
	id, err := s.machines.Create(ctx, args.Random)
	if err != nil {
		return MachineView{}, err
	}
	return s.view(ctx, id)
}

func (s *Server) handleList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.machines.List(ctx))
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGet(ctx context.Context, _ mcp.CallToolRequest, args machineArgs) (MachineView, error) {
	return s.view(ctx, args.ID)
}

func (s *Server) handleAdvance(ctx context.Context, _ mcp.CallToolRequest, args advanceArgs) (AdvanceResult, error) {
	count := args.Count
	if count == 0 {
		count = 1
	}
	if count < 0 || count > MaxAdvance {
		return AdvanceResult{}, fmt.Errorf("count must be between 1 and %d", MaxAdvance)
	}

	var res AdvanceResult
	err := s.machines.Do(ctx, args.ID, func(e *turing.Engine) error {
		if e.Halted() {
			return fmt.Errorf("%w: reset it first", domain.ErrHalted)
		}
		for i := 0; i < count; i++ {
			t, ok := e.Advance()
			if !ok {
				break
			}
			res.Applied++
			if t.Halted {
				break
			}
		}
		res.Halted = e.Halted()
		res.Machine = viewOf(e)
		return nil
	})
	return res, err
}

func (s *Server) handleReset(ctx context.Context, _ mcp.CallToolRequest, args resetArgs) (MachineView, error) {
	return s.apply(ctx, args.ID, func(e *turing.Engine) error {
		e.Reset(args.Random)
		return nil
	})
}

func (s *Server) handleCycleRule(ctx context.Context, _ mcp.CallToolRequest, args cycleRuleArgs) (MachineView, error) {
	state, err := domain.ParseState(args.State)
	if err != nil {
		return MachineView{}, err
	}
	sym, err := domain.ParseSymbol(args.Symbol)
	if err != nil {
		return MachineView{}, err
	}
	field, err := domain.ParseRuleField(args.Field)
	if err != nil {
		return MachineView{}, err
	}
	return s.apply(ctx, args.ID, func(e *turing.Engine) error {
		if !e.CycleRule(state, sym, field) {
			return fmt.Errorf("state %s has no rules", state)
		}
		return nil
	})
}

func (s *Server) handleWriteCell(ctx context.Context, _ mcp.CallToolRequest, args cellArgs) (MachineView, error) {
	sym, err := domain.ParseSymbol(args.Symbol)
	if err != nil {
		return MachineView{}, err
	}
	return s.apply(ctx, args.ID, func(e *turing.Engine) error {
		e.WriteCell(args.Position, sym)
		return nil
	})
}

func (s *Server) handleSetHead(ctx context.Context, _ mcp.CallToolRequest, args headArgs) (MachineView, error) {
	return s.apply(ctx, args.ID, func(e *turing.Engine) error {
		if !e.SetPosition(args.Position) {
			return fmt.Errorf("%w: %d", domain.ErrPositionOutOfRange, args.Position)
		}
		return nil
	})
}

func (s *Server) apply(ctx context.Context, id string, fn func(*turing.Engine) error) (MachineView, error) {
	var v MachineView
	err := s.machines.Do(ctx, id, func(e *turing.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		v = viewOf(e)
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrMachineNotFound) {
		s.logger.Warn("MCP tool rejected", domain.KeyMachineID, id, "err", err)
	}
	return v, err
}

func (s *Server) view(ctx context.Context, id string) (MachineView, error) {
	return s.apply(ctx, id, func(*turing.Engine) error { return nil })
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("turing://machines", "Live machines",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		views := make([]MachineView, 0)
		for _, id := range s.machines.List(ctx) {
			v, err := s.view(ctx, id)
			if err != nil {
				// Deleted since List.
				continue
			}
			views = append(views, v)
		}
		data, err := json.Marshal(views)
		if err != nil {
			return nil, fmt.Errorf("failed to encode machines: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "turing://machines",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
