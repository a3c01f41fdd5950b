package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetAudit(t *testing.T) {
	t.Helper()
	globalAuditMu.Lock()
	if globalAudit != nil {
		globalAudit.Close()
	}
	globalAudit = nil
	globalAuditMu.Unlock()
}

func TestAuditNoopWhenDebugModeOff(t *testing.T) {
	resetGlobalState(t)
	resetAudit(t)
	defer resetGlobalState(t)
	defer resetAudit(t)

	a := Audit()
	a.Record(AuditToolInvoke, map[string]interface{}{"tool": "kg_query"})
	assert.Nil(t, a.enc, "debug mode off should yield a no-op audit log")
}

func TestAuditRecordWritesJSONLWhenEnabled(t *testing.T) {
	resetGlobalState(t)
	resetAudit(t)
	defer resetGlobalState(t)
	defer resetAudit(t)

	ws := t.TempDir()
	cortexDir := filepath.Join(ws, ".cortex")
	require.NoError(t, os.MkdirAll(cortexDir, 0o755))
	configYAML := "logging:\n  debug_mode: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(cortexDir, "config.yaml"), []byte(configYAML), 0o644))
	require.NoError(t, Initialize(ws))

	a := Audit()
	a.Record(AuditShadowVeto, map[string]interface{}{"tool": "shell_exec", "pattern": "destructive-action"})
	a.Record(AuditTriggerFire, map[string]interface{}{"trigger": "heartbeat"})

	path := filepath.Join(ws, ".cortex", "logs", "audit.jsonl")
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []AuditEvent
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e AuditEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		events = append(events, e)
	}
	require.Len(t, events, 2)
	assert.Equal(t, AuditShadowVeto, events[0].Type)
	assert.Equal(t, "shell_exec", events[0].Fields["tool"])
	assert.Equal(t, AuditTriggerFire, events[1].Type)
}

func TestAuditRecordOnNilReceiverDoesNotPanic(t *testing.T) {
	var a *AuditLog
	assert.NotPanics(t, func() {
		a.Record(AuditReflection, nil)
		a.Close()
	})
}
