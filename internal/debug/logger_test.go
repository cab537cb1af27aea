package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledLoggerDiscards(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, false)
	Debug("hidden")
	Error("hidden too")

	assert.False(t, Enabled())
	assert.Empty(t, buf.String())
}

func TestEnabledLoggerWritesDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, true)
	t.Cleanup(func() { Init(false) })

	Debug("compiled", "fingerprint", uint64(42))
	With("exec_id", "01H").Info("executed")

	assert.True(t, Enabled())
	assert.Contains(t, buf.String(), "level=DEBUG msg=compiled fingerprint=42")
	assert.Contains(t, buf.String(), "level=INFO msg=executed exec_id=01H")
}
