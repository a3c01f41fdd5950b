package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobalState(t *testing.T) {
	t.Helper()
	CloseAll()
	cfgMu.Lock()
	cfg = loggingConfig{}
	logLevel = LevelInfo
	cfgMu.Unlock()
	logsDir = ""
	workspace = ""
}

func TestInitializeMissingConfigIsSilentNotFatal(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	ws := t.TempDir()
	err := Initialize(ws)
	require.NoError(t, err)
	assert.False(t, IsDebugMode())

	// With debug_mode false, Get returns a no-op logger and no logs dir exists.
	l := Get(CategoryBoot)
	l.Info("should not panic or write anything")
	_, statErr := os.Stat(filepath.Join(ws, ".cortex", "logs"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInitializeEmptyWorkspaceErrors(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	err := Initialize("")
	assert.Error(t, err)
}

func TestInitializeDebugModeCreatesLogFile(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	ws := t.TempDir()
	cortexDir := filepath.Join(ws, ".cortex")
	require.NoError(t, os.MkdirAll(cortexDir, 0o755))
	configYAML := "logging:\n  debug_mode: true\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(cortexDir, "config.yaml"), []byte(configYAML), 0o644))

	require.NoError(t, Initialize(ws))
	assert.True(t, IsDebugMode())

	l := Get(CategoryAgent)
	l.Debug("a debug line")
	l.Info("an info line")

	entries, err := os.ReadDir(filepath.Join(ws, ".cortex", "logs"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries, "debug_mode: true should create at least one log file")
}

func TestIsCategoryEnabledDefaultsTrueWhenUnlisted(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	cfgMu.Lock()
	cfg.Logging.DebugMode = true
	cfg.Logging.Categories = map[string]bool{"agent": false}
	cfgMu.Unlock()

	assert.False(t, isCategoryEnabled(CategoryAgent), "explicitly disabled category")
	assert.True(t, isCategoryEnabled(CategoryPsyche), "unlisted category defaults enabled")
}

func TestIsCategoryEnabledFalseWhenDebugModeOff(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	assert.False(t, isCategoryEnabled(CategoryBoot))
}

func TestGetReturnsNoopLoggerWhenLogsDirUnset(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	cfgMu.Lock()
	cfg.Logging.DebugMode = true
	cfgMu.Unlock()

	l := Get(CategoryEngine)
	assert.Nil(t, l.logger, "no workspace initialized means logsDir is empty, so Get must no-op")
}

func TestTimerStopWithThresholdDoesNotPanicWithoutInit(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	timer := StartTimer(CategoryRules, "fixpoint pass")
	elapsed := timer.StopWithThreshold(0)
	assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
}
