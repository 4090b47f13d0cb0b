package domain_test

import (
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewHead(t *testing.T) {
	h := domain.NewHead()
	assert.Equal(t, domain.TapeSize/2, h.Position())
	assert.Equal(t, domain.StateA, h.State())
	assert.Equal(t, domain.Left, h.Direction())
}

func TestHead_MoveWraps(t *testing.T) {
	t.Run("Left from zero", func(t *testing.T) {
		h := domain.NewHead()
		h.SetPosition(0)
		h.SetDirection(domain.Left)
		h.Move()
		assert.Equal(t, domain.TapeSize-1, h.Position())
	})

	t.Run("Right from the last cell", func(t *testing.T) {
		h := domain.NewHead()
		h.SetPosition(domain.TapeSize - 1)
		h.SetDirection(domain.Right)
		h.Move()
		assert.Equal(t, 0, h.Position())
	})

	t.Run("Every position", func(t *testing.T) {
		for p := 0; p < domain.TapeSize; p++ {
			h := domain.NewHead()
			h.SetPosition(p)
			h.SetDirection(domain.Right)
			h.Move()
			assert.Equal(t, (p+1)%domain.TapeSize, h.Position())
			h.SetDirection(domain.Left)
			h.Move()
			assert.Equal(t, p, h.Position())
		}
	})
}

func TestHead_Setters(t *testing.T) {
	h := domain.NewHead()

	assert.False(t, h.SetPosition(-1))
	assert.False(t, h.SetPosition(domain.TapeSize))
	assert.Equal(t, domain.TapeSize/2, h.Position())

	assert.True(t, h.SetPosition(7))
	assert.Equal(t, 7, h.Position())

	assert.True(t, h.SetState(domain.Reject))
	assert.False(t, h.SetState(domain.State(99)))
	assert.Equal(t, domain.Reject, h.State())

	assert.False(t, h.SetDirection(domain.Direction(5)))
	assert.Equal(t, domain.Left, h.Direction())

	h.Reset()
	assert.Equal(t, domain.NewHead(), h)
}
