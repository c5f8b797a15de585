package twilio

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/twilio/twilio-go/twiml"
)

// RenderConfig is every knob that shapes the spoken documents. It is
// validated once, at construction.
type RenderConfig struct {
	// Voices maps a locale (hi-IN) to a Twilio voice (Polly.Aditi). A locale
	// without an entry is spoken with Twilio's default voice for that language.
	Voices        map[string]string
	SpeechRate    string
	SpeechVolume  string
	SegmentPause  time.Duration
	ListenTimeout time.Duration
	SpeechTimeout string

	VoiceAction    string
	LanguageAction string

	Hints       string
	SpeechModel string
	Enhanced    bool
}

func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Voices: map[string]string{
			"hi-IN": "Polly.Aditi",
			"mr-IN": "Google.mr-IN-Standard-A",
			"en-IN": "Polly.Aditi",
		},
		SpeechRate:     "90%",
		SpeechVolume:   "loud",
		SegmentPause:   time.Second,
		ListenTimeout:  30 * time.Second,
		SpeechTimeout:  "auto",
		VoiceAction:    "/voice",
		LanguageAction: "/voice/set-language",
		Hints:          "namaste,hello,namaskar,hi,hey",
		SpeechModel:    "phone_call",
		Enhanced:       true,
	}
}

var (
	ratePattern   = regexp.MustCompile(`^(\d{1,3}%|x-slow|slow|medium|fast|x-fast)$`)
	volumePattern = regexp.MustCompile(`^(silent|x-soft|soft|medium|loud|x-loud|[+-]\d{1,2}dB)$`)
)

func (c RenderConfig) Validate() error {
	var errs []error
	if c.SpeechRate != "" && !ratePattern.MatchString(c.SpeechRate) {
		errs = append(errs, fmt.Errorf("invalid speech rate %q", c.SpeechRate))
	}
	if c.SpeechVolume != "" && !volumePattern.MatchString(c.SpeechVolume) {
		errs = append(errs, fmt.Errorf("invalid speech volume %q", c.SpeechVolume))
	}
	if c.SegmentPause < 0 {
		errs = append(errs, errors.New("segment pause must not be negative"))
	}
	if c.ListenTimeout < time.Second {
		errs = append(errs, fmt.Errorf("listen timeout %s is below one second", c.ListenTimeout))
	}
	if c.VoiceAction == "" {
		errs = append(errs, errors.New("voice action is required"))
	}
	if c.LanguageAction == "" {
		errs = append(errs, errors.New("language action is required"))
	}
	return errors.Join(errs...)
}

// Renderer builds TwiML verbs with the configured voice settings applied.
type Renderer struct {
	cfg RenderConfig
}

func NewRenderer(cfg RenderConfig) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return &Renderer{cfg: cfg}, nil
}

// Say speaks text plainly in locale.
func (r *Renderer) Say(locale, text string) *twiml.VoiceSay {
	return &twiml.VoiceSay{Voice: r.cfg.Voices[locale], Language: locale, Message: text}
}

// SayExpressive speaks text with the configured rate and volume.
func (r *Renderer) SayExpressive(locale, text string) *twiml.VoiceSay {
	if r.cfg.SpeechRate == "" && r.cfg.SpeechVolume == "" {
		return r.Say(locale, text)
	}
	return &twiml.VoiceSay{
		Voice:    r.cfg.Voices[locale],
		Language: locale,
		InnerElements: []twiml.Element{
			&twiml.VoiceProsody{Rate: r.cfg.SpeechRate, Volume: r.cfg.SpeechVolume, Words: text},
		},
	}
}

// Pause is the gap between reply segments. Twilio only accepts whole
// seconds, so the configured duration is rounded up.
func (r *Renderer) Pause() *twiml.VoicePause {
	return r.PauseFor(r.cfg.SegmentPause)
}

// PauseFor is a pause of an explicit length.
func (r *Renderer) PauseFor(d time.Duration) *twiml.VoicePause {
	n := wholeSeconds(d)
	if n == 0 {
		return &twiml.VoicePause{}
	}
	return &twiml.VoicePause{Length: strconv.Itoa(n)}
}

// Hangup ends the call.
func (r *Renderer) Hangup() *twiml.VoiceHangup {
	return &twiml.VoiceHangup{}
}

// ListenForSpeech opens a listening window that posts the transcript back
// to the voice action.
func (r *Renderer) ListenForSpeech(locale string, verbs ...twiml.Element) *twiml.VoiceGather {
	return &twiml.VoiceGather{
		Input:         "speech",
		Action:        r.cfg.VoiceAction,
		Method:        "POST",
		Timeout:       strconv.Itoa(wholeSeconds(r.cfg.ListenTimeout)),
		SpeechTimeout: r.cfg.SpeechTimeout,
		Language:      locale,
		Hints:         r.cfg.Hints,
		SpeechModel:   r.cfg.SpeechModel,
		Enhanced:      strconv.FormatBool(r.cfg.Enhanced),
		InnerElements: verbs,
	}
}

// ListenForDigit waits for a single key press and posts it to the language action.
func (r *Renderer) ListenForDigit(verbs ...twiml.Element) *twiml.VoiceGather {
	return &twiml.VoiceGather{
		Input:         "dtmf",
		Action:        r.cfg.LanguageAction,
		Method:        "POST",
		Timeout:       strconv.Itoa(wholeSeconds(r.cfg.ListenTimeout)),
		NumDigits:     "1",
		InnerElements: verbs,
	}
}

// RedirectToVoice sends the call back to the voice action.
func (r *Renderer) RedirectToVoice() *twiml.VoiceRedirect {
	return &twiml.VoiceRedirect{Method: "POST", Url: r.cfg.VoiceAction}
}

func wholeSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
