package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	var quiet, loud bytes.Buffer

	quietLog := New(&quiet, false)
	loudLog := New(&loud, true)
	quietLog.Debug().Msg("hidden")
	loudLog.Debug().Str("sink", "radio1").Msg("shown")

	assert.Empty(t, quiet.String())
	assert.Contains(t, loud.String(), "shown")
	assert.Contains(t, loud.String(), "sink=radio1")
}
