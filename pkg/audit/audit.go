package audit

import (
	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/pkg/logger"
	"github.com/troikatech/kisan-voicebot/pkg/session"
)

// Action represents an audit action
type Action string

const (
	ActionCallInitiated    Action = "call_initiated"
	ActionCallStatus       Action = "call_status"
	ActionLanguageSelected Action = "language_selected"
	ActionAPIKeyIssued     Action = "api_key_issued"
	ActionTranscript       Action = "transcript"
)

// StatusEvent is one status callback from the telephony provider.
type StatusEvent struct {
	CallSid     string
	CallStatus  string
	From        string
	To          string
	DurationSec int
}

// Logger writes call lifecycle events as structured log entries. Nothing is
// persisted beyond the log stream.
type Logger struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Logger {
	if log == nil {
		log = logger.Log
	}
	return &Logger{log: log.Named("audit")}
}

// Log records action against a call. Phone-bearing metadata is masked.
func (l *Logger) Log(action Action, callSid string, metadata map[string]string) {
	fields := append([]zap.Field{
		zap.String("action", string(action)),
		zap.String("call_sid", callSid),
	}, logger.SafeFields(metadata)...)
	l.log.Info("Audit event", fields...)
}

func (l *Logger) CallStatus(ev StatusEvent) {
	l.log.Info("Call status",
		zap.String("action", string(ActionCallStatus)),
		zap.String("call_sid", ev.CallSid),
		zap.String("status", ev.CallStatus),
		logger.MaskPhoneIfPresent("from", ev.From),
		logger.MaskPhoneIfPresent("to", ev.To),
		zap.Int("duration_sec", ev.DurationSec),
	)
}

// Transcript emits the whole conversation of a finished call as one entry.
func (l *Logger) Transcript(callSid, status string, history []session.Turn) {
	if len(history) == 0 {
		l.log.Info("Call ended without conversation",
			zap.String("action", string(ActionTranscript)),
			zap.String("call_sid", callSid),
			zap.String("status", status),
		)
		return
	}

	l.log.Info("Call transcript",
		zap.String("action", string(ActionTranscript)),
		zap.String("call_sid", callSid),
		zap.String("status", status),
		zap.Int("turns", len(history)),
		zap.Any("conversation", history),
	)
}
