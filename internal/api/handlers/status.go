package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/troikatech/kisan-voicebot/pkg/audit"
	"github.com/troikatech/kisan-voicebot/pkg/twilio"
)

// StatusCallbackPayload is Twilio's call status callback form.
type StatusCallbackPayload struct {
	CallSid      string `form:"CallSid"`
	CallStatus   string `form:"CallStatus"`
	From         string `form:"From"`
	To           string `form:"To"`
	CallDuration string `form:"CallDuration"`
}

// CallStatus handles POST /voice/status. It always answers 200 with an empty
// document; status callbacks have nothing to say to the caller.
func (h *Handler) CallStatus(c *gin.Context) {
	var payload StatusCallbackPayload
	if err := c.ShouldBind(&payload); err == nil {
		duration, _ := strconv.Atoi(payload.CallDuration)
		h.controller.EndCall(c.Request.Context(), audit.StatusEvent{
			CallSid:     payload.CallSid,
			CallStatus:  payload.CallStatus,
			From:        payload.From,
			To:          payload.To,
			DurationSec: duration,
		})
	}

	h.writeTwiML(c, twilio.NewResponse())
}
