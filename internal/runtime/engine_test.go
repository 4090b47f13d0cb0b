package runtime_test

import (
	"math/rand/v2"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *runtime.Engine {
	return runtime.NewEngine(rand.New(rand.NewPCG(42, 1024)))
}

func assertReady(t *testing.T, e *runtime.Engine) {
	t.Helper()
	head := e.Head()
	assert.Equal(t, domain.TapeSize/2, head.Position())
	assert.Equal(t, domain.StateA, head.State())
	assert.Equal(t, 0, e.Ticks())
	assert.False(t, e.Halted())
	assert.Equal(t, domain.StatusReady, e.Status())
	assert.Equal(t, 0, e.NonBlank())
}

func TestEngine_DeterministicReset(t *testing.T) {
	e := newEngine()

	// Dirty everything first.
	e.Reset(true)
	e.WriteCell(3, domain.One)
	e.SetPosition(9)
	for i := 0; i < 50 && !e.Halted(); i++ {
		e.Advance()
	}

	e.Reset(false)
	assertReady(t, e)

	for s := 0; s < domain.NumWorkingStates; s++ {
		for _, sym := range domain.Symbols() {
			rule, ok := e.Lookup(domain.State(s), sym)
			require.True(t, ok)
			assert.Equal(t, domain.Rule{Next: domain.StateA, Write: domain.Blank, Move: domain.Left}, rule)
		}
	}
	for p := 0; p < domain.TapeSize; p++ {
		assert.Equal(t, domain.Blank, e.Read(p))
	}
}

func TestEngine_RandomizedResetDomain(t *testing.T) {
	e := newEngine()
	e.Reset(true)
	assertReady(t, e)

	snap := e.Snapshot()
	for s := range snap.Rules {
		for _, rule := range snap.Rules[s] {
			assert.GreaterOrEqual(t, rule.Next.Ordinal(), 0)
			assert.LessOrEqual(t, rule.Next.Ordinal(), 18)
			assert.LessOrEqual(t, rule.Write.Ordinal(), 5)
			assert.Contains(t, []domain.Direction{domain.Left, domain.Right}, rule.Move)
		}
	}
}

func TestEngine_DefaultStep(t *testing.T) {
	e := newEngine()
	e.Reset(false)

	tr, ok := e.Step()
	require.True(t, ok)

	assert.Equal(t, domain.StateA, e.Head().State())
	assert.False(t, e.Halted())
	assert.Equal(t, 1, e.Ticks())
	assert.Equal(t, domain.Left, e.Head().Direction())
	assert.Equal(t, domain.TapeSize/2, e.Head().Position(), "step never moves the head")
	assert.Equal(t, domain.StatusRunning, e.Status())

	assert.Equal(t, 1, tr.Tick)
	assert.Equal(t, domain.TapeSize/2, tr.Position)
	assert.Equal(t, domain.StateA, tr.From)
	assert.Equal(t, domain.Blank, tr.Read)
	assert.False(t, tr.Halted)

	require.True(t, e.Move())
	assert.Equal(t, domain.TapeSize/2-1, e.Head().Position())
}

func TestEngine_StepWritesAndSetsDirection(t *testing.T) {
	e := newEngine()
	e.Reset(false)
	require.True(t, e.SetRule(domain.StateA, domain.Blank, domain.Rule{Next: domain.StateB, Write: domain.One, Move: domain.Right}))

	_, ok := e.Step()
	require.True(t, ok)

	assert.Equal(t, domain.One, e.Read(domain.TapeSize/2))
	assert.Equal(t, domain.StateB, e.Head().State())
	assert.Equal(t, domain.Right, e.Head().Direction())

	e.Move()
	assert.Equal(t, domain.TapeSize/2+1, e.Head().Position())
}

func TestEngine_TickMonotonicity(t *testing.T) {
	e := newEngine()
	e.Reset(true)

	last := e.Ticks()
	for i := 0; i < 500; i++ {
		wasHalted := e.Halted()
		_, ok := e.Advance()
		if wasHalted {
			assert.False(t, ok)
			assert.Equal(t, last, e.Ticks())
			continue
		}
		assert.True(t, ok)
		assert.Equal(t, last+1, e.Ticks())
		last = e.Ticks()
	}
}

func TestEngine_Advance(t *testing.T) {
	e := newEngine()
	e.Reset(false)
	require.True(t, e.SetRule(domain.StateA, domain.Blank, domain.Rule{Next: domain.StateA, Write: domain.Cross, Move: domain.Right}))
	require.True(t, e.SetRule(domain.StateA, domain.Cross, domain.Rule{Next: domain.Halt}))

	start := domain.TapeSize / 2
	for i := 0; i < 3; i++ {
		tr, ok := e.Advance()
		require.True(t, ok)
		assert.False(t, tr.Halted)
	}
	assert.Equal(t, start+3, e.Head().Position())
	for p := start; p < start+3; p++ {
		assert.Equal(t, domain.Cross, e.Read(p))
	}

	// Walk back onto a cross to halt.
	e.SetPosition(start)
	tr, ok := e.Advance()
	require.True(t, ok)
	assert.True(t, tr.Halted)
	assert.Equal(t, start, e.Head().Position(), "halting tick does not move the head")
	assert.Equal(t, domain.Halt, e.Head().State())
}

func TestEngine_RunsAroundTheRing(t *testing.T) {
	e := newEngine()
	e.Reset(false)

	for i := 0; i < domain.TapeSize; i++ {
		_, ok := e.Advance()
		require.True(t, ok)
	}
	assert.Equal(t, domain.TapeSize/2, e.Head().Position())
	assert.Equal(t, domain.TapeSize, e.Ticks())
}

func TestEngine_Editing(t *testing.T) {
	e := newEngine()

	t.Run("Cells", func(t *testing.T) {
		assert.True(t, e.WriteCell(100, domain.Zero))
		assert.Equal(t, domain.Zero, e.Read(100))
		assert.True(t, e.CycleCell(100))
		assert.Equal(t, domain.One, e.Read(100))
		assert.True(t, e.CycleCell(100))
		assert.Equal(t, domain.Blank, e.Read(100))
		assert.False(t, e.WriteCell(100, domain.Symbol(200)))
	})

	t.Run("Head", func(t *testing.T) {
		assert.True(t, e.SetPosition(0))
		assert.False(t, e.SetPosition(-3))
		assert.False(t, e.SetPosition(domain.TapeSize))
		assert.Equal(t, 0, e.Head().Position())
	})

	t.Run("Rules", func(t *testing.T) {
		assert.True(t, e.CycleNextState(domain.StateP, domain.One))
		assert.True(t, e.CycleWriteSymbol(domain.StateP, domain.One))
		assert.True(t, e.CycleMoveDirection(domain.StateP, domain.One))
		rule, _ := e.Lookup(domain.StateP, domain.One)
		assert.Equal(t, domain.Rule{Next: domain.StateB, Write: domain.Cross, Move: domain.Right}, rule)

		assert.True(t, e.CycleRule(domain.StateP, domain.One, domain.FieldMove))
		rule, _ = e.Lookup(domain.StateP, domain.One)
		assert.Equal(t, domain.Left, rule.Move)

		assert.False(t, e.CycleRule(domain.Accept, domain.One, domain.FieldNext))
	})
}

func TestEngine_SnapshotIsDetached(t *testing.T) {
	e := newEngine()
	snap := e.Snapshot()
	snap.Tape.Write(0, domain.One)
	snap.Rules[0][0] = domain.Rule{Next: domain.Reject}

	assert.Equal(t, domain.Blank, e.Read(0))
	rule, _ := e.Lookup(domain.StateA, domain.Blank)
	assert.Equal(t, domain.DefaultRule, rule)
}

func TestEngine_NilRandomizer(t *testing.T) {
	e := runtime.NewEngine(nil)
	e.Reset(true)
	rule, _ := e.Lookup(domain.StateF, domain.Zero)
	assert.Equal(t, domain.DefaultRule, rule)
}
