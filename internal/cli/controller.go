package cli

import (
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
)

// Action tells the interactive loop what to do after a key.
type Action int

const (
	ActionNone Action = iota
	ActionRedraw
	ActionToggleRun
	ActionQuit
)

var fieldOrder = []domain.RuleField{domain.FieldNext, domain.FieldWrite, domain.FieldMove}

// Controller maps keys to engine operations.
// It does no I/O and holds no lock; the interactive loop serializes calls
// with the run goroutine.
type Controller struct {
	Engine *turing.Engine

	Cursor   tui.Cursor
	Running  bool
	ShowHelp bool
	Message  string
}

// NewController places the cursor on the first rule.
func NewController(eng *turing.Engine) *Controller {
	return &Controller{
		Engine: eng,
		Cursor: tui.Cursor{State: domain.StateA, Symbol: domain.Blank, Field: domain.FieldNext},
	}
}

// View returns the host state drawn beside the machine.
func (c *Controller) View() tui.View {
	return tui.View{
		Cursor:     c.Cursor,
		Running:    c.Running,
		Message:    c.Message,
		Seed:       c.Engine.Seed(),
		Randomized: c.Engine.Randomized(),
	}
}

// HandleKey applies one key.
// While a run is in progress only SPACE, q, Ctrl-C and ? are honoured.
func (c *Controller) HandleKey(k Key) Action {
	switch k {
	case KeyCtrlC, 'q', 'Q':
		return ActionQuit
	case '?':
		c.ShowHelp = !c.ShowHelp
		return ActionRedraw
	case KeySpace:
		return c.toggleRun()
	}

	if c.Running {
		return ActionNone
	}
	if c.ShowHelp {
		// Any other key closes the help screen.
		c.ShowHelp = false
		return ActionRedraw
	}
	c.Message = ""

	switch k {
	case '.':
		c.tick()
	case 'i', 'I':
		c.Engine.Reset(false)
		c.Message = "reset"
	case 'r', 'R':
		c.Engine.Reset(true)
		c.Message = "random table"
	case KeyUp, 'k':
		c.Cursor.Symbol = domain.Symbol((int(c.Cursor.Symbol) + domain.NumSymbols - 1) % domain.NumSymbols)
	case KeyDown, 'j':
		c.Cursor.Symbol = c.Cursor.Symbol.Next()
	case KeyLeft, 'h':
		c.Cursor.State = domain.State((int(c.Cursor.State) + domain.NumWorkingStates - 1) % domain.NumWorkingStates)
	case KeyRight, 'l':
		c.Cursor.State = domain.State((int(c.Cursor.State) + 1) % domain.NumWorkingStates)
	case KeyTab:
		c.Cursor.Field = nextField(c.Cursor.Field)
	case KeyEnter:
		c.cycle(c.Cursor.Field)
	case 'n':
		c.cycle(domain.FieldNext)
	case 'w':
		c.cycle(domain.FieldWrite)
	case 'd':
		c.cycle(domain.FieldMove)
	case '<', ',':
		c.shiftHead(-1)
	case '>':
		c.shiftHead(1)
	case 'c':
		c.Engine.CycleCell(c.Engine.Head().Position())
	default:
		return ActionNone
	}
	return ActionRedraw
}

// Stopped is called by the interactive loop when a run ends on its own.
func (c *Controller) Stopped(rec *domain.RunRecord) {
	c.Running = false
	if rec == nil {
		return
	}
	switch rec.Reason {
	case domain.StopHalted:
		c.Message = fmt.Sprintf("%s after %d ticks", rec.FinalState, rec.TotalTicks)
	case domain.StopMaxTicks:
		c.Message = fmt.Sprintf("paused at tick limit (%d)", rec.Ticks)
	default:
		c.Message = "paused"
	}
}

func (c *Controller) toggleRun() Action {
	if c.Running {
		c.Running = false
		return ActionToggleRun
	}
	if c.Engine.Halted() {
		c.Message = "machine halted, press i or r to reset"
		return ActionRedraw
	}
	c.ShowHelp = false
	c.Message = ""
	c.Running = true
	return ActionToggleRun
}

func (c *Controller) tick() {
	if _, ok := c.Engine.Advance(); !ok {
		c.Message = "machine halted, press i or r to reset"
	}
}

func (c *Controller) cycle(field domain.RuleField) {
	c.Cursor.Field = field
	c.Engine.CycleRule(c.Cursor.State, c.Cursor.Symbol, field)
}

func (c *Controller) shiftHead(delta int) {
	pos := c.Engine.Head().Position()
	c.Engine.SetPosition(domain.Wrap(pos + delta))
}

func nextField(f domain.RuleField) domain.RuleField {
	for i, v := range fieldOrder {
		if v == f {
			return fieldOrder[(i+1)%len(fieldOrder)]
		}
	}
	return domain.FieldNext
}
