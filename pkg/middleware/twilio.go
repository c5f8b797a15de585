package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/pkg/twilio"
)

const authErrorMessage = "Sorry, there was an authentication error."

// TwilioSignature rejects webhooks whose X-Twilio-Signature does not match.
// The caller still gets a valid spoken document, never an HTTP error.
// baseURL is the public origin Twilio was given; the path and query of the
// request are appended to it.
func TwilioSignature(authToken, baseURL string, skip bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skip {
			c.Next()
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			logger.Warn("Unreadable webhook form", zap.Error(err), zap.String("path", c.Request.URL.Path))
			rejectWebhook(c)
			return
		}

		fullURL := baseURL + c.Request.URL.RequestURI()
		signature := c.GetHeader(twilio.SignatureHeader)
		if !twilio.ValidateSignature(authToken, fullURL, c.Request.PostForm, signature) {
			logger.Warn("Webhook signature validation failed",
				zap.String("url", fullURL),
				zap.String("call_sid", c.Request.PostForm.Get("CallSid")),
				zap.Bool("signature_present", signature != ""),
			)
			rejectWebhook(c)
			return
		}

		c.Next()
	}
}

func rejectWebhook(c *gin.Context) {
	body, err := twilio.NewResponse(&twiml.VoiceSay{Message: authErrorMessage}).Render()
	if err != nil {
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Data(http.StatusOK, "application/xml", body)
	c.Abort()
}
