package logger

import (
	"testing"

	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerLevel(t *testing.T) {
	assert.Equal(t, interfaces.DebugLevel, GetLoggerLevel("debug"))
	assert.Equal(t, interfaces.ErrorLevel, GetLoggerLevel("error"))
	assert.Equal(t, interfaces.InfoLevel, GetLoggerLevel("garbage"))
}

func TestZapLogger_SetLevelSharedWithChildren(t *testing.T) {
	log, err := NewZapLogger("info", true)
	require.NoError(t, err)

	child := log.WithSession("s-1")
	log.SetLevel(interfaces.ErrorLevel)

	assert.Equal(t, interfaces.ErrorLevel, log.GetLevel())
	assert.Equal(t, interfaces.ErrorLevel, child.GetLevel())
}

func TestConvertToZapFields_KeepsPlainArgs(t *testing.T) {
	out := convertToZapFields("key", "value", interfaces.LogField{Key: "k", Value: 1})
	assert.Len(t, out, 3)
	assert.Equal(t, "key", out[0])
}
