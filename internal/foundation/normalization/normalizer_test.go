package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

const (
	levelDebug level = "debug"
	levelInfo  level = "info"
	levelWarn  level = "warn"
)

func newLevels() *Normalizer[level] {
	return NewNormalizer(map[string]level{
		"debug":   levelDebug,
		"info":    levelInfo,
		"warn":    levelWarn,
		"WARNING": levelWarn,
	}, levelInfo)
}

func TestNormalize(t *testing.T) {
	n := newLevels()
	tests := []struct {
		name  string
		input string
		want  level
	}{
		{"exact", "debug", levelDebug},
		{"case", "DEBUG", levelDebug},
		{"spaces", "  warn ", levelWarn},
		{"alias", "Warning", levelWarn},
		{"unknown falls back", "verbose", levelInfo},
		{"empty falls back", "", levelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestLookup(t *testing.T) {
	n := newLevels()
	v, ok := n.Lookup(" Info")
	assert.True(t, ok)
	assert.Equal(t, levelInfo, v)

	_, ok = n.Lookup("trace")
	assert.False(t, ok)
}

func TestNormalizeWithError(t *testing.T) {
	n := newLevels()
	_, err := n.NormalizeWithError("trace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"trace"`)
	assert.Contains(t, err.Error(), "[debug info warn warning]")
}

func TestKeysReturnsCopy(t *testing.T) {
	n := newLevels()
	keys := n.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"debug", "info", "warn", "warning"}, n.Keys())
}
