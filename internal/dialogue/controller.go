package dialogue

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/twilio/twilio-go/twiml"
	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/pkg/ai"
	"github.com/troikatech/kisan-voicebot/pkg/audit"
	"github.com/troikatech/kisan-voicebot/pkg/logger"
	"github.com/troikatech/kisan-voicebot/pkg/metrics"
	"github.com/troikatech/kisan-voicebot/pkg/session"
	"github.com/troikatech/kisan-voicebot/pkg/twilio"
)

// Generator produces Diksha's reply to one utterance.
type Generator interface {
	Generate(ctx context.Context, utterance string, history []session.Turn, locale, callSid string) (string, error)
}

// Event is one speech webhook from the telephony provider.
type Event struct {
	CallSid      string
	SpeechResult string
	From         string
	Confidence   float64
}

// Controller decides what the caller hears next. Every entry point returns a
// complete, sayable document; failures degrade to a spoken message.
type Controller struct {
	sessions  *session.Sessions
	generator Generator
	renderer  *twilio.Renderer
	audit     *audit.Logger
	languages Languages
	logger    *zap.Logger
	now       func() time.Time
}

func NewController(
	sessions *session.Sessions,
	generator Generator,
	renderer *twilio.Renderer,
	auditLog *audit.Logger,
	languages Languages,
	logger *zap.Logger,
) *Controller {
	if _, ok := ParseLocale(string(languages.Default)); !ok || len(languages.Supported) == 0 {
		tags := make([]string, 0, len(languages.Supported))
		for _, l := range languages.Supported {
			tags = append(tags, l.String())
		}
		languages = NewLanguages(string(languages.Default), tags)
	}
	return &Controller{
		sessions:  sessions,
		generator: generator,
		renderer:  renderer,
		audit:     auditLog,
		languages: languages,
		logger:    logger,
		now:       time.Now,
	}
}

// recoverTo turns a panic in an entry point into the error document.
func (c *Controller) recoverTo(resp **twilio.Response, log *zap.Logger, op string) {
	if r := recover(); r != nil {
		log.Error("Panic in "+op, zap.Any("panic", r), zap.Stack("stack"))
		if resp != nil {
			*resp = c.errorResponse()
		}
	}
}

// HandleSpeech answers a speech webhook: a welcome prompt when nothing was
// said, otherwise one generated reply appended to the call history.
func (c *Controller) HandleSpeech(ctx context.Context, ev Event) (resp *twilio.Response) {
	log := logger.ForCall(c.logger, ev.CallSid)
	defer c.recoverTo(&resp, log, "HandleSpeech")

	if strings.TrimSpace(ev.CallSid) == "" {
		log.Warn("Speech webhook without CallSid")
		return c.errorResponse()
	}

	stored, hasStored, err := c.storedLocale(ctx, ev.CallSid)
	if err != nil {
		log.Error("Failed to read call language", zap.Error(err))
		return c.errorResponse()
	}

	utterance := strings.TrimSpace(ev.SpeechResult)
	if utterance == "" {
		locale := c.languages.Default
		if hasStored {
			locale = stored
		}
		log.Info("Playing welcome", zap.String("locale", locale.String()))
		metrics.RecordTurn("welcome")
		return c.welcomeResponse(locale)
	}

	locale := stored
	if !hasStored {
		locale = c.languages.Resolve(DetectLanguage(utterance))
	}

	history, err := c.sessions.History(ctx, ev.CallSid)
	if err != nil {
		log.Error("Failed to read call history", zap.Error(err))
		return c.errorResponse()
	}

	log.Info("Caller spoke",
		zap.String("locale", locale.String()),
		zap.Float64("confidence", ev.Confidence),
		zap.Int("history_turns", len(history)),
		logger.MaskPhoneIfPresent("from", ev.From),
	)

	kind := "reply"
	reply, err := c.generator.Generate(ctx, utterance, history, locale.String(), ev.CallSid)
	if err != nil {
		var genErr *ai.GenerationError
		if errors.As(err, &genErr) {
			log.Warn("Using fallback reply", zap.Error(genErr.Err))
		} else {
			log.Error("Generator failed", zap.Error(err))
		}
		reply = FallbackReply
		kind = "fallback"
	}

	turn := session.Turn{User: utterance, Reply: reply, Timestamp: c.now()}
	if _, err := c.sessions.AppendTurn(ctx, ev.CallSid, turn); err != nil {
		log.Error("Failed to append turn", zap.Error(err))
		return c.errorResponse()
	}

	metrics.RecordTurn(kind)
	return c.replyResponse(locale, reply)
}

// SelectLanguage stores the locale picked from the menu and welcomes the
// caller in it.
func (c *Controller) SelectLanguage(ctx context.Context, callSid, digits string) (resp *twilio.Response) {
	log := logger.ForCall(c.logger, callSid)
	defer c.recoverTo(&resp, log, "SelectLanguage")

	if strings.TrimSpace(callSid) == "" {
		log.Warn("Language selection without CallSid")
		return c.errorResponse()
	}

	locale := c.languages.Resolve(LocaleForDigit(digits, c.languages.Default))

	if err := c.sessions.SetLanguage(ctx, callSid, locale.String()); err != nil {
		log.Error("Failed to store call language", zap.Error(err))
		return c.errorResponse()
	}

	c.audit.Log(audit.ActionLanguageSelected, callSid, map[string]string{
		"digits": digits,
		"locale": locale.String(),
	})
	metrics.RecordTurn("language")
	return c.welcomeResponse(locale)
}

// LanguageMenu introduces Diksha in every served locale and waits for one key
// press. With no key press the call continues at the voice webhook.
func (c *Controller) LanguageMenu(ctx context.Context) (resp *twilio.Response) {
	defer c.recoverTo(&resp, c.logger, "LanguageMenu")

	r := c.renderer
	var verbs []twiml.Element
	for _, l := range Locales {
		if !c.languages.Allows(l) {
			continue
		}
		p := PromptsFor(l)
		verbs = append(verbs, r.Say(l.String(), p.Intro+" "+p.MenuHint), r.PauseFor(time.Second))
	}
	return twilio.NewResponse(r.ListenForDigit(verbs...), r.RedirectToVoice())
}

// EndCall records a status callback and, once the call is over, its transcript.
func (c *Controller) EndCall(ctx context.Context, ev audit.StatusEvent) {
	defer c.recoverTo(nil, logger.ForCall(c.logger, ev.CallSid), "EndCall")

	c.audit.CallStatus(ev)
	metrics.RecordCallStatus(ev.CallStatus)

	if !twilio.IsTerminal(ev.CallStatus) {
		return
	}

	history, err := c.sessions.History(ctx, ev.CallSid)
	if err != nil {
		logger.ForCall(c.logger, ev.CallSid).Error("Failed to read transcript", zap.Error(err))
		return
	}
	c.audit.Transcript(ev.CallSid, ev.CallStatus, history)
}

// ErrorResponse is the generic "didn't understand" document.
func (c *Controller) ErrorResponse() *twilio.Response {
	return c.errorResponse()
}

func (c *Controller) storedLocale(ctx context.Context, callSid string) (Locale, bool, error) {
	raw, ok, err := c.sessions.Language(ctx, callSid)
	if err != nil || !ok {
		return "", false, err
	}
	locale, valid := ParseLocale(raw)
	if !valid || !c.languages.Allows(locale) {
		logger.ForCall(c.logger, callSid).Warn("Stored language not served, using default", zap.String("language", raw))
		return c.languages.Default, true, nil
	}
	return locale, true, nil
}

func (c *Controller) welcomeResponse(locale Locale) *twilio.Response {
	r := c.renderer
	p := PromptsFor(locale)
	return twilio.NewResponse(
		r.ListenForSpeech(locale.String(), r.Say(locale.String(), p.Welcome)),
		r.Say(locale.String(), p.Silence),
		r.Hangup(),
	)
}

func (c *Controller) replyResponse(locale Locale, reply string) *twilio.Response {
	r := c.renderer
	var verbs []twiml.Element
	for _, seg := range SplitSegments(reply) {
		verbs = append(verbs, r.SayExpressive(locale.String(), seg), r.Pause())
	}
	return twilio.NewResponse(
		r.ListenForSpeech(locale.String(), verbs...),
		r.Say(locale.String(), PromptsFor(locale).Silence),
		r.Hangup(),
	)
}

func (c *Controller) errorResponse() *twilio.Response {
	r := c.renderer
	l := c.languages.Default.String()
	metrics.RecordTurn("error")
	return twilio.NewResponse(
		r.ListenForSpeech(l, r.Say(l, ErrorMessage)),
		r.Say(l, PromptsFor(c.languages.Default).Silence),
		r.Hangup(),
	)
}

// SplitSegments breaks a reply into sentences on the terminator. Empty pieces
// are dropped and each kept piece ends with the terminator.
func SplitSegments(reply string) []string {
	var segs []string
	for _, part := range strings.Split(reply, SentenceTerminator) {
		if part = strings.TrimSpace(part); part != "" {
			segs = append(segs, part+SentenceTerminator)
		}
	}
	return segs
}
