package audit

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/troikatech/kisan-voicebot/pkg/session"
)

func TestLogger_CallStatusMasksNumbers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := New(zap.New(core))

	l.CallStatus(StatusEvent{CallSid: "CA123", CallStatus: "completed", From: "+919876543210", DurationSec: 42})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["from"] != "+919876••3210" {
		t.Errorf("from = %v, want masked", fields["from"])
	}
	if fields["status"] != "completed" || fields["call_sid"] != "CA123" {
		t.Errorf("fields = %v", fields)
	}
}

func TestLogger_Transcript(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := New(zap.New(core))

	l.Transcript("CA123", "completed", []session.Turn{
		{User: "नमस्ते", Reply: "बताइए।"},
		{User: "पानी?", Reply: "दो बार दें।"},
	})
	l.Transcript("CA456", "no-answer", nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Message != "Call transcript" {
		t.Errorf("message = %q", entries[0].Message)
	}
	if got := entries[0].ContextMap()["turns"]; got != int64(2) {
		t.Errorf("turns = %v, want 2", got)
	}
	if entries[1].Message != "Call ended without conversation" {
		t.Errorf("message = %q", entries[1].Message)
	}
}

func TestLogger_LogMasksMetadata(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := New(zap.New(core))

	l.Log(ActionCallInitiated, "CA1", map[string]string{"to": "+919876543210", "status": "queued"})

	fields := logs.All()[0].ContextMap()
	if fields["to"] != "+919876••3210" {
		t.Errorf("to = %v", fields["to"])
	}
	if fields["action"] != "call_initiated" {
		t.Errorf("action = %v", fields["action"])
	}
}
