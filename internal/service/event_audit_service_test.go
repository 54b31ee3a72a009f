package service

import (
	"context"
	"testing"
	"time"

	"faith-companion-be/pkg/events"
)

type logEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

type captureLogger struct {
	entries []logEntry
}

func (l *captureLogger) Debug(module, message string, details map[string]interface{}) {
	l.entries = append(l.entries, logEntry{"debug", module, message, details})
}

func (l *captureLogger) Info(module, message string, details map[string]interface{}) {
	l.entries = append(l.entries, logEntry{"info", module, message, details})
}

func (l *captureLogger) Warn(module, message string, details map[string]interface{}) {
	l.entries = append(l.entries, logEntry{"warn", module, message, details})
}

func (l *captureLogger) Error(module, message string, details map[string]interface{}) {
	l.entries = append(l.entries, logEntry{"error", module, message, details})
}

func (l *captureLogger) Sync() error { return nil }

func TestEventAuditHandlerLogsEvent(t *testing.T) {
	log := &captureLogger{}
	svc := NewEventAuditService(nil, log).(*eventAuditService)

	evt := events.BaseEvent{
		Type:       "events.SESSION_SAVED",
		Data:       map[string]interface{}{"session_id": "sess-1"},
		OccurredAt: time.Now(),
	}

	if err := svc.handleEvent(context.Background(), evt); err != nil {
		t.Fatalf("handleEvent failed: %v", err)
	}

	if len(log.entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(log.entries))
	}
	entry := log.entries[0]
	if entry.level != "info" {
		t.Errorf("level = %q, want info", entry.level)
	}
	if entry.details["type"] != "events.SESSION_SAVED" {
		t.Errorf("logged type = %v", entry.details["type"])
	}
	payload, ok := entry.details["payload"].(map[string]interface{})
	if !ok || payload["session_id"] != "sess-1" {
		t.Errorf("logged payload = %v", entry.details["payload"])
	}
}

func TestEventAuditStartWithoutSubscriber(t *testing.T) {
	log := &captureLogger{}
	svc := NewEventAuditService(nil, log)

	svc.Start()

	if len(log.entries) != 1 || log.entries[0].level != "warn" {
		t.Errorf("expected a single warn entry, got %+v", log.entries)
	}
}
