package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_FormatsAndCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With("run_id", "abc")

	log.Info("Loaded %d customer(s)", 3)
	log.Warn("skipped")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "Loaded 3 customer(s)", entries[0].Message)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "abc", entries[0].ContextMap()["run_id"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestNew(t *testing.T) {
	log, err := New("debug")
	assert.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error("ignored %s", "value")
	assert.NoError(t, log.Sync())
}
