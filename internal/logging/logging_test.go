package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zap.AtomicLevel{
		"debug":   zap.NewAtomicLevelAt(zap.DebugLevel),
		"WARNING": zap.NewAtomicLevelAt(zap.WarnLevel),
		" error ": zap.NewAtomicLevelAt(zap.ErrorLevel),
		"":        zap.NewAtomicLevelAt(zap.InfoLevel),
		"verbose": zap.NewAtomicLevelAt(zap.InfoLevel),
	}
	for in, want := range cases {
		assert.Equal(t, want.Level(), ParseLevel(in), in)
	}
}

func TestNew(t *testing.T) {
	l, err := New("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = New("error")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.WarnLevel))
}
