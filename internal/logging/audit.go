package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType names a structured audit event. Each type corresponds to a
// logical predicate an external analyzer could reconstruct from the JSONL
// stream (e.g. rule_derive/4, tool_invoke/4, shadow_veto/3).
type AuditEventType string

const (
	AuditRuleDerive     AuditEventType = "rule_derive"
	AuditToolInvoke     AuditEventType = "tool_invoke"
	AuditToolComplete   AuditEventType = "tool_complete"
	AuditToolError      AuditEventType = "tool_error"
	AuditShadowVeto     AuditEventType = "shadow_veto"
	AuditShadowBias     AuditEventType = "shadow_bias"
	AuditTriggerFire    AuditEventType = "trigger_fire"
	AuditGoalTransition AuditEventType = "goal_transition"
	AuditReflection     AuditEventType = "reflection"
)

// AuditEvent is one JSONL record in the audit stream.
type AuditEvent struct {
	Timestamp int64                  `json:"ts"`
	Type      AuditEventType         `json:"type"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// AuditLog appends structured events to a single JSONL file under
// .cortex/logs/audit.jsonl. It is a no-op when logging is disabled, mirroring
// the behavior of the category loggers in logger.go.
type AuditLog struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

var (
	globalAudit   *AuditLog
	globalAuditMu sync.Mutex
)

// Audit returns the process-wide audit log, opening it on first use.
func Audit() *AuditLog {
	globalAuditMu.Lock()
	defer globalAuditMu.Unlock()
	if globalAudit != nil {
		return globalAudit
	}
	if !IsDebugMode() || logsDir == "" {
		globalAudit = &AuditLog{}
		return globalAudit
	}
	path := filepath.Join(logsDir, "audit.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		globalAudit = &AuditLog{}
		return globalAudit
	}
	globalAudit = &AuditLog{file: f, enc: json.NewEncoder(f)}
	return globalAudit
}

// Record writes one audit event. Errors are swallowed: audit trails are
// evidence, not state, and must never block the operation they describe.
func (a *AuditLog) Record(eventType AuditEventType, fields map[string]interface{}) {
	if a == nil || a.enc == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_ = a.enc.Encode(AuditEvent{
		Timestamp: time.Now().UnixMilli(),
		Type:      eventType,
		Fields:    fields,
	})
}

// Close closes the underlying audit file, if open.
func (a *AuditLog) Close() {
	if a == nil || a.file == nil {
		return
	}
	a.file.Close()
}
