package tui

import (
	"strconv"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Screen geometry.
const (
	Width  = 80
	Height = 24

	headColumn = Width / 2

	rowState      = 0
	rowHead       = 1
	rowTapeTop    = 2
	rowTape       = 3
	rowTapeBottom = 4
	rowStatus     = 6
	rowLegend     = 8
	rowFirstRule  = 10
	rowInfo       = Height - 3
)

// Cursor selects one field of one rule in the rule table.
type Cursor struct {
	State  domain.State
	Symbol domain.Symbol
	Field  domain.RuleField
}

// View is the host state drawn next to the machine.
type View struct {
	Cursor  Cursor
	Running bool
	Message string

	// Seed is shown for randomized tables.
	Seed       uint64
	Randomized bool
}

type cell struct {
	r  rune
	st style
}

type canvas [Height][Width]cell

func newCanvas() *canvas {
	var c canvas
	for y := range c {
		for x := range c[y] {
			c[y][x] = cell{r: ' '}
		}
	}
	return &c
}

func (c *canvas) set(x, y int, r rune, st style) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	c[y][x] = cell{r: r, st: st}
}

func (c *canvas) text(x, y int, s string, st style) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, st)
	}
}

func (c *canvas) mark(x, y int, st style) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	c[y][x].st |= st
}

// Render draws the machine on an 80x24 screen and returns its lines.
func (t *Theme) Render(snap domain.Snapshot, view View) []string {
	c := newCanvas()

	drawTape(c, &snap)
	drawRules(c, &snap, view.Cursor)
	drawStatus(c, &snap, view)
	drawInfo(c, &snap)

	lines := make([]string, Height)
	for y := range c {
		var b strings.Builder
		row := c[y][:]
		// Trailing blanks are dropped so plain renders compare cleanly.
		end := len(row)
		for end > 0 && row[end-1].r == ' ' && row[end-1].st == stylePlain {
			end--
		}
		for x := 0; x < end; {
			st := row[x].st
			var run []rune
			for x < end && row[x].st == st {
				run = append(run, row[x].r)
				x++
			}
			b.WriteString(t.paint(string(run), st))
		}
		lines[y] = b.String()
	}
	return lines
}

// drawTape shows a window of the tape centred on the head.
// Cells beyond either end of the tape stay blank.
func drawTape(c *canvas, snap *domain.Snapshot) {
	xMin := snap.Position - headColumn

	for i := 0; i < Width; i++ {
		pos := xMin + i
		if !domain.InRange(pos) {
			continue
		}
		c.set(i, rowTapeTop, '-', styleBold)
		c.set(i, rowTapeBottom, '-', styleBold)
		c.set(i, rowTape, snap.Tape.Read(pos).Glyph(), styleBold)
	}

	c.set(headColumn, rowState, snap.State.Glyph(), stateStyle(snap.State))
	c.set(headColumn, rowHead, '#', styleYellow|styleBold)
	c.set(headColumn, rowTapeTop, '|', styleBold)
	c.mark(headColumn, rowTape, styleReverse)

	// Left, right and head coordinates, relative to the middle of the tape.
	left := strconv.Itoa(max(xMin, 0) - domain.TapeSize/2)
	c.text(abs(min(0, xMin)), rowTapeBottom, left, styleFaint)

	right := strconv.Itoa(min(xMin+Width-1, domain.TapeSize-1) - domain.TapeSize/2)
	rx := min(Width-len(right), domain.TapeSize-xMin-len(right))
	c.text(rx, rowTapeBottom, right, styleFaint)

	c.text(headColumn, rowTapeBottom, strconv.Itoa(snap.Position-domain.TapeSize/2), styleFaint)
}

func ruleColumn(s domain.State) int {
	return 3 + s.Ordinal()*5
}

func ruleRow(sym domain.Symbol) int {
	return rowFirstRule + sym.Ordinal()*2
}

// drawRules draws the transition table: states across, symbols down.
// The rule the next step would apply is highlighted; halting targets hide
// their write and move glyphs.
func drawRules(c *canvas, snap *domain.Snapshot, cur Cursor) {
	for _, sym := range domain.Symbols() {
		c.set(0, ruleRow(sym), sym.Glyph(), styleBold)
	}

	_, hasCurrent := snap.CurrentRule()

	for i := 0; i < domain.NumWorkingStates; i++ {
		s := domain.State(i)
		x := ruleColumn(s)
		c.set(x, rowLegend, s.Glyph(), styleFaint)

		for _, sym := range domain.Symbols() {
			y := ruleRow(sym)
			rule := snap.Rules[s][sym]

			var hl style
			if hasCurrent && s == snap.State && sym == snap.Current() {
				hl = styleReverse
			}

			c.set(x-1, y, rule.Next.Glyph(), stateStyle(rule.Next)|hl)
			if !rule.Halts() {
				c.set(x, y, rule.Write.Glyph(), styleBold|hl)
				c.set(x+1, y, rule.Move.Glyph(), styleBold|hl)
			}
		}
	}

	if cur.State.IsWorking() && cur.Symbol.Valid() {
		x, y := ruleColumn(cur.State), ruleRow(cur.Symbol)
		switch cur.Field {
		case domain.FieldWrite:
			c.mark(x, y, styleUnderline)
		case domain.FieldMove:
			c.mark(x+1, y, styleUnderline)
		default:
			c.mark(x-1, y, styleUnderline)
		}
		// Keep the cursor visible over hidden halting fields.
		if c[y][x].r == ' ' {
			c[y][x].r = '_'
		}
	}
}

func drawStatus(c *canvas, snap *domain.Snapshot, view View) {
	mode := "paused"
	switch {
	case snap.Halted:
		mode = "halted"
	case view.Running:
		mode = "running"
	case snap.Status == domain.StatusReady:
		mode = "ready"
	}

	status := "[" + mode + "]  state " + snap.State.String() + "  read " + string(snap.Current().Glyph())
	if view.Randomized {
		status += "  seed " + strconv.FormatUint(view.Seed, 10)
	}
	st := styleBold
	switch {
	case snap.Halted:
		st |= stateStyle(snap.State) &^ styleFaint
	case view.Running:
		st |= styleGreen
	}
	c.text(0, rowStatus, status, st)

	if view.Message != "" {
		c.text(Width-len([]rune(view.Message)), rowStatus-1, view.Message, styleYellow)
	}
}

// drawInfo draws the bottom info block.
func drawInfo(c *canvas, snap *domain.Snapshot) {
	for x := 0; x < Width; x++ {
		c.set(x, rowInfo, '=', stylePlain)
	}
	c.text(Width/2-8, rowInfo, "Simulation Info", styleFaint)

	c.text(0, Height-2, "Num non-halting states: "+strconv.Itoa(domain.NumWorkingStates), stylePlain)
	c.text(0, Height-1, "Tape alphabet = ", stylePlain)
	for i, sym := range domain.Symbols() {
		c.set(16+i, Height-1, sym.Glyph(), styleBold)
	}

	c.text(28, Height-2, "SPACE-pause/run i-reset q-quit", stylePlain)
	c.text(28, Height-1, "arrows-select n/w/d-edit ?-help", stylePlain)
	c.text(62, Height-2, "Ticks -> "+strconv.Itoa(snap.Ticks), stylePlain)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
