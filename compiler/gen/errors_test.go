package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Router", "1r", "router must be a Go identifier")

		assert.Contains(t, err.Error(), "scaffold: config error")
		assert.Contains(t, err.Error(), "Router=1r")
		assert.Contains(t, err.Error(), "must be a Go identifier")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Module", nil, "cannot be empty")

		assert.Equal(t, "scaffold: config error for Module: cannot be empty", err.Error())
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Dialect", nil, "missing")
		assert.True(t, errors.Is(err, ErrMissingConfig))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewConfigError("Dialect", nil, "missing"))
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("unexpected token")
		err := NewGenerationError("block", "users", "render declarations", cause)
		err.File = "main.go"

		msg := err.Error()
		assert.Contains(t, msg, "scaffold: generation error")
		assert.Contains(t, msg, "in phase block")
		assert.Contains(t, msg, "for table users")
		assert.Contains(t, msg, "(file: main.go)")
		assert.Contains(t, msg, "render declarations: unexpected token")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewGenerationError("type", "users", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
	})

	t.Run("IsGenerationError helper", func(t *testing.T) {
		assert.True(t, IsGenerationError(NewGenerationError("type", "", "", nil)))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}

func TestCollisionError(t *testing.T) {
	err := &CollisionError{Ident: "User", Table: "user", Other: "users"}

	assert.Equal(t, "scaffold: identifier User of user collides with users", err.Error())
	assert.True(t, errors.Is(err, ErrNameCollision))
	assert.True(t, IsCollision(fmt.Errorf("check: %w", err)))
	assert.False(t, IsCollision(NewConfigError("x", nil, "y")))
}
