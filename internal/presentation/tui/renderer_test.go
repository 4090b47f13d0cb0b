package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHelp(t *testing.T) {
	out, err := tui.RenderHelp(80, "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "random table")
	assert.Contains(t, out, "SPACE")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, termenv.Ascii)
	assert.Contains(t, buf.String(), "|_   _|")
	assert.NotContains(t, buf.String(), "\x1b[")
}
