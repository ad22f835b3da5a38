package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
	}{
		{"Debug level", "debug", true},
		{"Info level", "info", false},
		{"Unknown level defaults to info", "chatty", false},
		{"Empty level defaults to info", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, false, &buf)

			log.Debug().Msg("debug line")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0)

			buf.Reset()
			log.Info().Str("component", "test").Msg("hello")

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "info", entry["level"])
			assert.Equal(t, "hello", entry["message"])
			assert.Equal(t, "test", entry["component"])
			assert.Contains(t, entry, "time")
		})
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", true, &buf)
	log.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}
