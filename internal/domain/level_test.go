package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelError, "ERROR"},
		{LevelWarning, "WARNING"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelTrace, "TRACE"},
		{LevelUnknown, "UNKNOWN"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		want   Level
		wantOK bool
	}{
		{"ERROR", LevelError, true},
		{"error", LevelError, true},
		{"Err", LevelError, true},
		{"warning", LevelWarning, true},
		{"WARN", LevelWarning, true},
		{"Info", LevelInfo, true},
		{" debug ", LevelDebug, true},
		{"trace", LevelTrace, true},
		{"unknown", LevelUnknown, true},
		{"fatal", LevelUnknown, false},
		{"", LevelUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestLevels_CoversVocabulary(t *testing.T) {
	levels := Levels()
	assert.Len(t, levels, 6)
	assert.Equal(t, LevelError, levels[0])
	assert.Equal(t, LevelUnknown, levels[len(levels)-1])

	seen := make(map[Level]bool)
	for _, l := range levels {
		seen[l] = true
	}
	assert.Len(t, seen, 6)
}

func TestLevel_TextEncoding(t *testing.T) {
	data, err := json.Marshal(map[string]Level{"level": LevelWarning})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"WARNING"}`, string(data))

	var decoded struct {
		Level Level `json:"level"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"level":"debug"}`), &decoded))
	assert.Equal(t, LevelDebug, decoded.Level)

	err = json.Unmarshal([]byte(`{"level":"loud"}`), &decoded)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestLevel_Valid(t *testing.T) {
	for _, l := range Levels() {
		assert.True(t, l.Valid(), l.String())
	}
	assert.False(t, Level(-1).Valid())
	assert.False(t, Level(42).Valid())
}
