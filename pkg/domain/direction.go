package domain

import (
	"fmt"
	"strings"
)

// Direction is the way the head moves after a non-halting step.
type Direction uint8

const (
	Left Direction = iota
	Right
)

// Valid reports whether d is Left or Right.
func (d Direction) Valid() bool {
	return d < NumDirections
}

// Ordinal returns the dense index of d.
func (d Direction) Ordinal() int {
	return int(d)
}

// Next toggles between Left and Right.
func (d Direction) Next() Direction {
	return Direction((int(d) + 1) % NumDirections)
}

// Glyph returns 'l' or 'r'.
func (d Direction) Glyph() rune {
	switch d {
	case Left:
		return 'l'
	case Right:
		return 'r'
	}
	return '?'
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection accepts "left"/"right" or "l"/"r", case-insensitively.
func ParseDirection(text string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return Left, fmt.Errorf("%w: %q", ErrUnknownDirection, text)
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseDirection accepts.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
