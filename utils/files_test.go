package utils

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeSubdir(t *testing.T) {
	base := t.TempDir()

	t.Run("plain_name", func(t *testing.T) {
		got, err := SafeSubdir(base, "london-bridge-1.png")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "london-bridge-1.png"), got)
	})

	t.Run("leading_slash", func(t *testing.T) {
		got, err := SafeSubdir(base, "/nested/img.png")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "nested", "img.png"), got)
	})

	t.Run("empty_is_base", func(t *testing.T) {
		got, err := SafeSubdir(base, "  ")
		require.NoError(t, err)
		want, _ := filepath.Abs(base)
		assert.Equal(t, want, got)
	})

	t.Run("traversal", func(t *testing.T) {
		_, err := SafeSubdir(base, "../../etc/passwd")
		require.ErrorIs(t, err, ErrPathTraversal)
	})
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
