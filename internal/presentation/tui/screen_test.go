package tui_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, eng *turing.Engine, view tui.View) []string {
	t.Helper()
	lines := tui.NewTheme(termenv.Ascii).Render(eng.Snapshot(), view)
	require.Len(t, lines, tui.Height)
	for i, l := range lines {
		require.LessOrEqual(t, len([]rune(l)), tui.Width, "line %d", i)
	}
	return lines
}

func at(line string, x int) rune {
	r := []rune(line)
	if x >= len(r) {
		return ' '
	}
	return r[x]
}

func TestRender_TapeWindow(t *testing.T) {
	eng := turing.New()
	eng.WriteCell(domain.TapeSize/2, domain.One)
	eng.WriteCell(domain.TapeSize/2-40, domain.Cross)
	eng.WriteCell(domain.TapeSize/2+39, domain.Ampersand)

	lines := render(t, eng, tui.View{})

	assert.Equal(t, 'a', at(lines[0], 40), "state above the head")
	assert.Equal(t, '#', at(lines[1], 40))
	assert.Equal(t, '|', at(lines[2], 40))
	assert.Equal(t, '1', at(lines[3], 40), "symbol under the head")
	assert.Equal(t, 'X', at(lines[3], 0), "window starts 40 cells left of the head")
	assert.Equal(t, '&', at(lines[3], 79))
	assert.True(t, strings.HasPrefix(lines[4], "-40"), lines[4])
	assert.True(t, strings.HasSuffix(lines[4], "39"), lines[4])
	assert.Equal(t, '0', at(lines[4], 40), "head coordinate")
}

func TestRender_TapeEnds(t *testing.T) {
	eng := turing.New()
	require.True(t, eng.SetPosition(10))

	lines := render(t, eng, tui.View{})

	// Cells left of position 0 are not drawn.
	assert.Equal(t, ' ', at(lines[3], 29))
	assert.Equal(t, '.', at(lines[3], 30))
	assert.Equal(t, ' ', at(lines[2], 29))
	assert.Equal(t, '-', at(lines[2], 30))
	assert.Contains(t, lines[4], "-512")
	assert.Contains(t, lines[4], "-502")
}

func TestRender_RuleTable(t *testing.T) {
	eng := turing.New()
	eng.SetRule(domain.StateA, domain.Blank, domain.Rule{Next: domain.StateC, Write: domain.Zero, Move: domain.Right})
	eng.SetRule(domain.StateB, domain.Cross, domain.Rule{Next: domain.Reject, Write: domain.One, Move: domain.Right})

	lines := render(t, eng, tui.View{})

	assert.Equal(t, 'a', at(lines[8], 3), "state legend")
	assert.Equal(t, 'p', at(lines[8], 3+15*5))
	assert.Equal(t, '.', at(lines[10], 0), "symbol legend")
	assert.Equal(t, '1', at(lines[20], 0))

	assert.Equal(t, "c0r", string([]rune(lines[10])[2:5]))
	// Halting targets hide write and move.
	assert.Equal(t, 'R', at(lines[12], 7))
	assert.Equal(t, ' ', at(lines[12], 8))
	assert.Equal(t, ' ', at(lines[12], 9))
}

func TestRender_Info(t *testing.T) {
	eng := turing.New()
	for i := 0; i < 7; i++ {
		eng.Advance()
	}
	lines := render(t, eng, tui.View{Running: true, Message: "saved"})

	assert.Contains(t, lines[21], "Simulation Info")
	assert.Contains(t, lines[22], "Num non-halting states: 16")
	assert.Contains(t, lines[22], "Ticks -> 7")
	assert.Contains(t, lines[23], "Tape alphabet = .X$&01")
	assert.Contains(t, lines[6], "[running]")
	assert.True(t, strings.HasSuffix(lines[5], "saved"))
}

func TestRender_StatusHalted(t *testing.T) {
	eng := turing.New(turing.WithSeed(11))
	eng.Reset(true)
	eng.SetRule(domain.StateA, domain.Blank, domain.Rule{Next: domain.Accept})
	eng.Advance()

	lines := render(t, eng, tui.View{Randomized: true, Seed: 11})
	assert.Contains(t, lines[6], "[halted]  state accept")
	assert.Contains(t, lines[6], "seed 11")
	assert.Equal(t, 'A', at(lines[0], 40))
}

func TestRender_CursorOnHiddenField(t *testing.T) {
	eng := turing.New()
	eng.SetRule(domain.StateD, domain.One, domain.Rule{Next: domain.Halt})

	lines := render(t, eng, tui.View{Cursor: tui.Cursor{State: domain.StateD, Symbol: domain.One, Field: domain.FieldWrite}})
	x := 3 + 3*5
	assert.Equal(t, 'H', at(lines[20], x-1))
	assert.Equal(t, '_', at(lines[20], x))
}

func TestRender_ColorProfile(t *testing.T) {
	eng := turing.New()
	eng.SetRule(domain.StateA, domain.Blank, domain.Rule{Next: domain.Accept})

	plain := tui.NewTheme(termenv.Ascii).Render(eng.Snapshot(), tui.View{})
	colored := tui.NewTheme(termenv.ANSI).Render(eng.Snapshot(), tui.View{})

	assert.NotContains(t, strings.Join(plain, "\n"), "\x1b[")
	assert.Contains(t, colored[10], "\x1b[")
	assert.Equal(t, "A", tui.NewTheme(termenv.Ascii).State(domain.Accept))
	assert.Equal(t, "$", tui.NewTheme(termenv.Ascii).Symbol(domain.Asterisk))
}
