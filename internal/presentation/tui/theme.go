package tui

import (
	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

// style is a bit set of the attributes a screen cell can carry.
type style uint16

const (
	stylePlain style = 0
	styleBold  style = 1 << iota
	styleFaint
	styleReverse
	styleUnderline
	styleMagenta
	styleGreen
	styleRed
	styleYellow
)

// Theme turns styled cells into terminal strings for one color profile.
// The Ascii profile renders plain text.
type Theme struct {
	profile termenv.Profile
}

// NewTheme creates a theme for profile, e.g. termenv.ColorProfile() or termenv.Ascii.
func NewTheme(profile termenv.Profile) *Theme {
	return &Theme{profile: profile}
}

func (t *Theme) Profile() termenv.Profile {
	return t.profile
}

func (t *Theme) paint(s string, st style) string {
	if st == stylePlain || t.profile == termenv.Ascii {
		return s
	}

	out := t.profile.String(s)
	switch {
	case st&styleMagenta != 0:
		out = out.Foreground(t.profile.Color("5"))
	case st&styleGreen != 0:
		out = out.Foreground(t.profile.Color("2"))
	case st&styleRed != 0:
		out = out.Foreground(t.profile.Color("1"))
	case st&styleYellow != 0:
		out = out.Foreground(t.profile.Color("3"))
	}
	if st&styleBold != 0 {
		out = out.Bold()
	}
	if st&styleFaint != 0 {
		out = out.Faint()
	}
	if st&styleReverse != 0 {
		out = out.Reverse()
	}
	if st&styleUnderline != 0 {
		out = out.Underline()
	}
	return out.String()
}

// stateStyle colours halting states (H magenta, A green, R red) and dims working ones.
func stateStyle(s domain.State) style {
	switch s {
	case domain.Halt:
		return styleMagenta | styleBold
	case domain.Accept:
		return styleGreen | styleBold
	case domain.Reject:
		return styleRed | styleBold
	}
	return styleFaint
}

// State paints a state glyph.
func (t *Theme) State(s domain.State) string {
	return t.paint(string(s.Glyph()), stateStyle(s))
}

// Symbol paints a symbol glyph.
func (t *Theme) Symbol(s domain.Symbol) string {
	return t.paint(string(s.Glyph()), styleBold)
}
