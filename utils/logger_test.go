package utils

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	logger := NewLogger("debug", "json")
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	assert.Same(t, logger, log.Default())

	logger = NewLogger("nonsense", "")
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}
