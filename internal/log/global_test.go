package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger(t *testing.T) {
	original := defaultLogger.Load()
	t.Cleanup(func() { SetDefaultLogger(original) })

	SetDefaultLogger(nil)
	lazy := DefaultLogger()
	assert.NotNil(t, lazy)
	assert.Equal(t, LevelWarn, lazy.Config().Level)
	assert.Same(t, lazy, DefaultLogger(), "the lazily built logger is reused")

	custom := Discard()
	SetDefaultLogger(custom)
	assert.Same(t, custom, DefaultLogger())
}
