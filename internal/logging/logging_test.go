package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelZapMapping(t *testing.T) {
	assert.Equal(t, LevelWarning.zapLevel(), New(LevelWarning).Level().zapLevel())
}

func TestSetLevelChangesActiveLevel(t *testing.T) {
	l := New(LevelWarning)
	l.SetLevel(LevelError)
	assert.Equal(t, LevelError, l.Level())
}

func TestDefaultLoggerRoundTrip(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	custom := New(LevelCritical)
	SetDefault(custom)
	assert.Equal(t, LevelCritical, Default().Level())
}

func TestLevelMethodsDoNotPanic(t *testing.T) {
	l := New(LevelTrace)
	assert.NotPanics(t, func() {
		l.Trace("trace %d", 1)
		l.Debug("debug %d", 1)
		l.Info("info %d", 1)
		l.Warning("warning %d", 1)
		l.Error("error %d", 1)
		l.Critical("critical %d", 1)
	})
}
