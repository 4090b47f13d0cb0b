package domain

import "fmt"

// Tape is a fixed ring of TapeSize cells. The zero value is a blank tape.
type Tape struct {
	cells [TapeSize]Symbol
}

// Wrap normalizes any integer into [0, TapeSize).
func Wrap(position int) int {
	p := position % TapeSize
	if p < 0 {
		p += TapeSize
	}
	return p
}

// InRange reports whether position addresses a cell without wrapping.
func InRange(position int) bool {
	return position >= 0 && position < TapeSize
}

// Read returns the symbol at position, wrapping around the ring.
func (t *Tape) Read(position int) Symbol {
	return t.cells[Wrap(position)]
}

// Write overwrites a single cell. Unknown symbols are ignored.
func (t *Tape) Write(position int, s Symbol) bool {
	if !s.Valid() {
		return false
	}
	t.cells[Wrap(position)] = s
	return true
}

// Reset sets every cell back to Blank.
func (t *Tape) Reset() {
	for i := range t.cells {
		t.cells[i] = Blank
	}
}

// Count returns how many cells hold s.
func (t *Tape) Count(s Symbol) int {
	n := 0
	for _, c := range t.cells {
		if c == s {
			n++
		}
	}
	return n
}

// String draws the whole tape with one glyph per cell.
func (t Tape) String() string {
	buf := make([]rune, TapeSize)
	for i, c := range t.cells {
		buf[i] = c.Glyph()
	}
	return string(buf)
}

// MarshalText encodes the tape as TapeSize glyphs.
func (t Tape) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes exactly TapeSize glyphs.
func (t *Tape) UnmarshalText(text []byte) error {
	runes := []rune(string(text))
	if len(runes) != TapeSize {
		return fmt.Errorf("tape must hold %d cells, got %d", TapeSize, len(runes))
	}
	var cells [TapeSize]Symbol
	for i, r := range runes {
		s, ok := SymbolFromGlyph(r)
		if !ok {
			return fmt.Errorf("%w: %q at cell %d", ErrUnknownSymbol, r, i)
		}
		cells[i] = s
	}
	t.cells = cells
	return nil
}
