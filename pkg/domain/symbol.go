package domain

import (
	"fmt"
	"strings"
)

// Symbol is a tape symbol.
type Symbol uint8

const (
	Blank Symbol = iota
	Cross
	Asterisk
	Ampersand
	Zero
	One
)

var symbolGlyphs = [NumSymbols]rune{'.', 'X', '$', '&', '0', '1'}

var symbolNames = [NumSymbols]string{"blank", "cross", "asterisk", "ampersand", "zero", "one"}

// Symbols lists the alphabet in ordinal order.
func Symbols() []Symbol {
	return []Symbol{Blank, Cross, Asterisk, Ampersand, Zero, One}
}

// SymbolFromOrdinal converts an ordinal into a Symbol.
func SymbolFromOrdinal(i int) (Symbol, bool) {
	if i < 0 || i >= NumSymbols {
		return Blank, false
	}
	return Symbol(i), true
}

// Valid reports whether s belongs to the alphabet.
func (s Symbol) Valid() bool {
	return s < NumSymbols
}

// Ordinal returns the dense index of s.
func (s Symbol) Ordinal() int {
	return int(s)
}

// Next returns the following symbol, wrapping after One.
func (s Symbol) Next() Symbol {
	return Symbol((int(s) + 1) % NumSymbols)
}

// Glyph returns the single character used to draw s.
func (s Symbol) Glyph() rune {
	if !s.Valid() {
		return '?'
	}
	return symbolGlyphs[s]
}

func (s Symbol) String() string {
	if !s.Valid() {
		return fmt.Sprintf("symbol(%d)", uint8(s))
	}
	return symbolNames[s]
}

// ParseSymbol accepts a symbol name ("cross") or its glyph ("X").
func ParseSymbol(text string) (Symbol, error) {
	text = strings.TrimSpace(text)
	if r := []rune(text); len(r) == 1 {
		if s, ok := SymbolFromGlyph(r[0]); ok {
			return s, nil
		}
	}
	lower := strings.ToLower(text)
	for i, name := range symbolNames {
		if name == lower {
			return Symbol(i), nil
		}
	}
	return Blank, fmt.Errorf("%w: %q", ErrUnknownSymbol, text)
}

// SymbolFromGlyph maps a drawn character back to its Symbol.
func SymbolFromGlyph(r rune) (Symbol, bool) {
	if r == 'x' {
		return Cross, true
	}
	for i, g := range symbolGlyphs {
		if g == r {
			return Symbol(i), true
		}
	}
	return Blank, false
}

// MarshalText encodes the symbol by name.
func (s Symbol) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSymbol, uint8(s))
	}
	return []byte(symbolNames[s]), nil
}

// UnmarshalText accepts anything ParseSymbol accepts.
func (s *Symbol) UnmarshalText(text []byte) error {
	parsed, err := ParseSymbol(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
