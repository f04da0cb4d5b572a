package logx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugOnlyWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG] shown 2")
}

func TestWarnAlwaysPrints(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	Warn("cleanup failed: %s", "tmp")
	assert.Contains(t, buf.String(), "[WARN] cleanup failed: tmp")
}
