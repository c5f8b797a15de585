package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Turn is one exchange. Turns are never edited once appended.
type Turn struct {
	User      string    `json:"user"`
	Reply     string    `json:"ai"`
	Timestamp time.Time `json:"timestamp"`
}

// Sessions is the typed view of a Store used by the voice flow.
type Sessions struct {
	store Store
	ttl   time.Duration
}

func NewSessions(store Store, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sessions{store: store, ttl: ttl}
}

func LanguageKey(callSid string) string { return "language_" + callSid }

func HistoryKey(callSid string) string { return "history_" + callSid }

// Language returns the locale chosen for the call, if any.
func (s *Sessions) Language(ctx context.Context, callSid string) (string, bool, error) {
	b, ok, err := s.store.Get(ctx, LanguageKey(callSid))
	if err != nil || !ok {
		return "", false, err
	}
	return string(b), true, nil
}

func (s *Sessions) SetLanguage(ctx context.Context, callSid, locale string) error {
	return s.store.Set(ctx, LanguageKey(callSid), []byte(locale), s.ttl)
}

// History returns the turns so far; an unknown or expired call has none.
func (s *Sessions) History(ctx context.Context, callSid string) ([]Turn, error) {
	b, ok, err := s.store.Get(ctx, HistoryKey(callSid))
	if err != nil || !ok {
		return []Turn{}, err
	}
	return decodeHistory(b)
}

// AppendTurn adds turn to the end of the call's history and returns the
// resulting history. The read-modify-write is atomic per call.
func (s *Sessions) AppendTurn(ctx context.Context, callSid string, turn Turn) ([]Turn, error) {
	var out []Turn
	err := s.store.Update(ctx, HistoryKey(callSid), s.ttl, func(old []byte, ok bool) ([]byte, error) {
		history := []Turn{}
		if ok {
			var err error
			if history, err = decodeHistory(old); err != nil {
				return nil, err
			}
		}
		history = append(history, turn)
		out = history
		return json.Marshal(history)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeHistory(b []byte) ([]Turn, error) {
	history := []Turn{}
	if len(b) == 0 {
		return history, nil
	}
	if err := json.Unmarshal(b, &history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return history, nil
}
