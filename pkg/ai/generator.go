package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/pkg/retry"
	"github.com/troikatech/kisan-voicebot/pkg/session"
)

var ErrEmptyReply = errors.New("empty reply")

// GenerationError reports that no reply could be produced for a turn.
type GenerationError struct {
	CallSid string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate reply for call %s: %v", e.CallSid, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator turns an utterance plus call history into Diksha's reply.
type Generator struct {
	manager  *Manager
	timeout  time.Duration
	retry    retry.Config
	sampling GenerationRequest
	logger   *zap.Logger
}

func NewGenerator(manager *Manager, timeout time.Duration, maxAttempts int, logger *zap.Logger) *Generator {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = maxAttempts
	cfg.InitialDelay = 200 * time.Millisecond
	cfg.MaxDelay = time.Second

	return &Generator{
		manager:  manager,
		timeout:  timeout,
		retry:    cfg,
		sampling: DefaultSampling(),
		logger:   logger,
	}
}

// Generate makes one bounded attempt (with retries inside the timeout) to
// reply to utterance. Every failure, including an empty reply, comes back
// as a *GenerationError.
func (g *Generator) Generate(ctx context.Context, utterance string, history []session.Turn, locale, callSid string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := g.sampling
	req.Prompt = BuildPrompt(utterance, history, locale)

	var reply, provider string
	err := retry.Do(ctx, g.retry, func() error {
		text, name, err := g.manager.ExecuteWithFallback(ctx, &req)
		if errors.Is(err, ErrNoProviders) {
			return retry.Permanent(err)
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return ErrEmptyReply
		}
		reply, provider = text, name
		return nil
	})
	if err != nil {
		g.logger.Error("Reply generation failed",
			zap.String("call_sid", callSid),
			zap.Int("history_turns", len(history)),
			zap.Error(err),
		)
		return "", &GenerationError{CallSid: callSid, Err: err}
	}

	g.logger.Info("Reply generated",
		zap.String("call_sid", callSid),
		zap.String("provider", provider),
		zap.String("locale", locale),
		zap.Int("history_turns", len(history)),
	)
	return reply, nil
}
