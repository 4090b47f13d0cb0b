package cli

import (
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	return NewController(turing.New(turing.WithSeed(1)))
}

func TestController_CursorWraps(t *testing.T) {
	c := newTestController(t)

	assert.Equal(t, ActionRedraw, c.HandleKey(KeyUp))
	assert.Equal(t, domain.One, c.Cursor.Symbol)
	c.HandleKey('j')
	assert.Equal(t, domain.Blank, c.Cursor.Symbol)

	c.HandleKey(KeyLeft)
	assert.Equal(t, domain.StateP, c.Cursor.State)
	c.HandleKey('l')
	assert.Equal(t, domain.StateA, c.Cursor.State)

	c.HandleKey(KeyTab)
	assert.Equal(t, domain.FieldWrite, c.Cursor.Field)
	c.HandleKey(KeyTab)
	c.HandleKey(KeyTab)
	assert.Equal(t, domain.FieldNext, c.Cursor.Field)
}

func TestController_CycleRule(t *testing.T) {
	c := newTestController(t)
	c.HandleKey(KeyRight) // state b
	c.HandleKey(KeyDown)  // symbol X

	c.HandleKey('n')
	rule, ok := c.Engine.Lookup(domain.StateB, domain.Cross)
	require.True(t, ok)
	assert.Equal(t, domain.StateB, rule.Next)

	c.HandleKey('w')
	rule, _ = c.Engine.Lookup(domain.StateB, domain.Cross)
	assert.Equal(t, domain.Cross, rule.Write)
	assert.Equal(t, domain.FieldWrite, c.Cursor.Field)

	c.HandleKey('d')
	rule, _ = c.Engine.Lookup(domain.StateB, domain.Cross)
	assert.Equal(t, domain.Right, rule.Move)

	// Enter cycles the selected field.
	c.HandleKey(KeyEnter)
	rule, _ = c.Engine.Lookup(domain.StateB, domain.Cross)
	assert.Equal(t, domain.Left, rule.Move)
}

func TestController_HeadAndTape(t *testing.T) {
	c := newTestController(t)
	start := c.Engine.Head().Position()

	c.HandleKey('>')
	assert.Equal(t, start+1, c.Engine.Head().Position())
	c.HandleKey('<')
	c.HandleKey('<')
	assert.Equal(t, start-1, c.Engine.Head().Position())

	c.HandleKey('c')
	assert.Equal(t, domain.Cross, c.Engine.Read(start-1))

	require.True(t, c.Engine.SetPosition(0))
	c.HandleKey('<')
	assert.Equal(t, domain.TapeSize-1, c.Engine.Head().Position())
}

func TestController_TickAndReset(t *testing.T) {
	c := newTestController(t)

	c.HandleKey('.')
	assert.Equal(t, 1, c.Engine.Ticks())

	c.HandleKey('r')
	assert.True(t, c.Engine.Randomized())
	assert.Equal(t, 0, c.Engine.Ticks())

	c.HandleKey('i')
	assert.False(t, c.Engine.Randomized())
	assert.Equal(t, "reset", c.Message)
}

func TestController_Halted(t *testing.T) {
	c := newTestController(t)
	require.True(t, c.Engine.SetRule(domain.StateA, domain.Blank, domain.Rule{Next: domain.Accept}))

	c.HandleKey('.')
	require.True(t, c.Engine.Halted())

	c.HandleKey('.')
	assert.Contains(t, c.Message, "halted")
	assert.Equal(t, 1, c.Engine.Ticks())

	assert.Equal(t, ActionRedraw, c.HandleKey(KeySpace))
	assert.False(t, c.Running)

	// Edits still apply while halted.
	c.HandleKey('c')
	assert.Equal(t, domain.Cross, c.Engine.Read(c.Engine.Head().Position()))
}

func TestController_RunningIgnoresEdits(t *testing.T) {
	c := newTestController(t)

	assert.Equal(t, ActionToggleRun, c.HandleKey(KeySpace))
	require.True(t, c.Running)

	for _, k := range []Key{'.', 'n', 'c', '>', KeyUp, 'i'} {
		assert.Equal(t, ActionNone, c.HandleKey(k), "key %s", k)
	}
	assert.Equal(t, 0, c.Engine.Ticks())
	assert.Equal(t, domain.Blank, c.Cursor.Symbol)

	assert.Equal(t, ActionRedraw, c.HandleKey('?'))
	assert.True(t, c.ShowHelp)
	assert.Equal(t, ActionQuit, c.HandleKey(KeyCtrlC))

	assert.Equal(t, ActionToggleRun, c.HandleKey(KeySpace))
	assert.False(t, c.Running)
}

func TestController_HelpClosesOnAnyKey(t *testing.T) {
	c := newTestController(t)
	c.HandleKey('?')
	require.True(t, c.ShowHelp)

	c.HandleKey('.')
	assert.False(t, c.ShowHelp)
	assert.Equal(t, 0, c.Engine.Ticks(), "the closing key is swallowed")
}

func TestController_Stopped(t *testing.T) {
	c := newTestController(t)
	c.Running = true

	c.Stopped(&domain.RunRecord{Reason: domain.StopHalted, FinalState: domain.Accept, TotalTicks: 4})
	assert.False(t, c.Running)
	assert.Equal(t, "accept after 4 ticks", c.Message)

	c.Stopped(&domain.RunRecord{Reason: domain.StopCancelled})
	assert.Equal(t, "paused", c.Message)

	view := c.View()
	assert.Equal(t, c.Engine.Seed(), view.Seed)
	assert.Equal(t, "paused", view.Message)
}
