package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/pkg/audit"
	"github.com/troikatech/kisan-voicebot/pkg/errors"
	"github.com/troikatech/kisan-voicebot/pkg/logger"
	"github.com/troikatech/kisan-voicebot/pkg/middleware"
	"github.com/troikatech/kisan-voicebot/pkg/twilio"
	"github.com/troikatech/kisan-voicebot/pkg/validation"
)

type InitiateCallRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type InitiateCallResponse struct {
	Status  string `json:"status"`
	CallSid string `json:"call_sid"`
	Message string `json:"message"`
}

// InitiateCall handles POST /initiate-call: dial a farmer and point the call
// at our voice webhook.
func (h *Handler) InitiateCall(c *gin.Context) {
	var req InitiateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			errors.RequestTooLarge(c, "request body too large")
			return
		}
		errors.StatusError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	phone, err := validation.NormalizeE164(req.PhoneNumber)
	if err != nil {
		if stderrors.Is(err, validation.ErrPhoneRequired) {
			errors.StatusError(c, http.StatusBadRequest, validation.ErrPhoneRequired.Error())
			return
		}
		errors.StatusError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("Initiating call", logger.MaskPhone("to", phone))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	call, err := h.calls.CreateCall(ctx, twilio.CallRequest{
		To:                   phone,
		From:                 h.cfg.TwilioPhoneNumber,
		URL:                  h.cfg.BaseURL + h.cfg.CallEntryPath,
		Timeout:              h.cfg.CallTimeoutSec,
		StatusCallback:       h.cfg.BaseURL + "/voice/status",
		StatusCallbackEvents: []string{twilio.CallStatusCompleted, twilio.CallStatusFailed},
		MachineDetection:     "Enable",
	})
	if err != nil {
		h.logger.Error("Call initiation failed", logger.MaskPhone("to", phone), zap.Error(err))

		message := err.Error()
		var apiErr *twilio.APIError
		if stderrors.As(err, &apiErr) {
			message = apiErr.Message
		}
		errors.StatusError(c, http.StatusInternalServerError, message)
		return
	}

	h.audit.Log(audit.ActionCallInitiated, call.Sid, map[string]string{
		"to":     phone,
		"status": call.Status,
	})

	c.JSON(http.StatusOK, InitiateCallResponse{
		Status:  "success",
		CallSid: call.Sid,
		Message: "Call initiated successfully",
	})
}

type GenerateAPIKeyResponse struct {
	Status   string `json:"status"`
	APIKey   string `json:"api_key"`
	Message  string `json:"message"`
	ValidFor string `json:"valid_for"`
}

// GenerateAPIKey handles POST /generate-api-key.
func (h *Handler) GenerateAPIKey(c *gin.Context) {
	key, rec, err := h.issuer.Issue(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to generate API key", zap.Error(err))
		errors.StatusError(c, http.StatusInternalServerError, "Failed to generate API key")
		return
	}

	h.audit.Log(audit.ActionAPIKeyIssued, "", map[string]string{
		"client_ip":  c.ClientIP(),
		"created_at": rec.CreatedAt.Format(time.RFC3339),
	})

	c.JSON(http.StatusOK, GenerateAPIKeyResponse{
		Status:   "success",
		APIKey:   key,
		Message:  "Use this API key to initiate calls",
		ValidFor: h.issuer.ValidFor(),
	})
}
