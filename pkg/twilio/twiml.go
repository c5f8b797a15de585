package twilio

import (
	"fmt"

	"github.com/twilio/twilio-go/twiml"
)

// Response is a TwiML voice document: the verbs Twilio executes in order.
type Response struct {
	Verbs []twiml.Element
}

// NewResponse returns a document containing verbs in order.
func NewResponse(verbs ...twiml.Element) *Response {
	return &Response{Verbs: verbs}
}

// Render marshals the document, XML declaration included.
func (r *Response) Render() ([]byte, error) {
	doc, err := twiml.Voice(r.Verbs)
	if err != nil {
		return nil, fmt.Errorf("render twiml: %w", err)
	}
	return []byte(doc), nil
}

// Spoken returns the text a <Say> reads out, with or without prosody.
func Spoken(say *twiml.VoiceSay) string {
	if say == nil {
		return ""
	}
	if say.Message != "" {
		return say.Message
	}
	for _, el := range say.InnerElements {
		if p, ok := el.(*twiml.VoiceProsody); ok {
			return p.Words
		}
	}
	return ""
}

// ProsodyOf returns the prosody wrapper of say, if it has one.
func ProsodyOf(say *twiml.VoiceSay) *twiml.VoiceProsody {
	if say == nil {
		return nil
	}
	for _, el := range say.InnerElements {
		if p, ok := el.(*twiml.VoiceProsody); ok {
			return p
		}
	}
	return nil
}
