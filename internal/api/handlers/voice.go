package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/internal/dialogue"
	"github.com/troikatech/kisan-voicebot/pkg/twilio"
)

// VoiceWebhookPayload is the subset of Twilio's voice webhook form we read.
type VoiceWebhookPayload struct {
	CallSid      string `form:"CallSid"`
	From         string `form:"From"`
	To           string `form:"To"`
	SpeechResult string `form:"SpeechResult"`
	Confidence   string `form:"Confidence"`
	Digits       string `form:"Digits"`
}

// VoiceWebhook handles POST /voice: every caller utterance (or silence) lands here.
func (h *Handler) VoiceWebhook(c *gin.Context) {
	var payload VoiceWebhookPayload
	if err := c.ShouldBind(&payload); err != nil {
		h.logger.Warn("Invalid voice webhook payload", zap.Error(err))
		h.writeTwiML(c, h.controller.ErrorResponse())
		return
	}

	confidence, _ := strconv.ParseFloat(payload.Confidence, 64)
	resp := h.controller.HandleSpeech(c.Request.Context(), dialogue.Event{
		CallSid:      payload.CallSid,
		SpeechResult: payload.SpeechResult,
		From:         payload.From,
		Confidence:   confidence,
	})
	h.writeTwiML(c, resp)
}

// SetLanguage handles POST /voice/set-language with the pressed digit.
func (h *Handler) SetLanguage(c *gin.Context) {
	var payload VoiceWebhookPayload
	if err := c.ShouldBind(&payload); err != nil {
		h.logger.Warn("Invalid language payload", zap.Error(err))
		h.writeTwiML(c, h.controller.ErrorResponse())
		return
	}

	h.writeTwiML(c, h.controller.SelectLanguage(c.Request.Context(), payload.CallSid, payload.Digits))
}

// LanguageMenu handles POST /voice/language-menu.
func (h *Handler) LanguageMenu(c *gin.Context) {
	h.writeTwiML(c, h.controller.LanguageMenu(c.Request.Context()))
}

func (h *Handler) writeTwiML(c *gin.Context, resp *twilio.Response) {
	body, err := resp.Render()
	if err != nil {
		h.logger.Error("Failed to render TwiML", zap.Error(err))
		body, _ = h.controller.ErrorResponse().Render()
	}
	c.Data(http.StatusOK, "application/xml", body)
}
