package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/internal/dialogue"
	"github.com/troikatech/kisan-voicebot/pkg/ai"
	"github.com/troikatech/kisan-voicebot/pkg/apikey"
	"github.com/troikatech/kisan-voicebot/pkg/audit"
	"github.com/troikatech/kisan-voicebot/pkg/env"
	"github.com/troikatech/kisan-voicebot/pkg/logger"
	"github.com/troikatech/kisan-voicebot/pkg/session"
	"github.com/troikatech/kisan-voicebot/pkg/twilio"
)

// CallPlacer places outbound calls.
type CallPlacer interface {
	CreateCall(ctx context.Context, req twilio.CallRequest) (*twilio.CallResponse, error)
}

type Handler struct {
	cfg        *env.Config
	controller *dialogue.Controller
	calls      CallPlacer
	issuer     *apikey.Issuer
	store      session.Store
	aiManager  *ai.Manager
	audit      *audit.Logger
	logger     *zap.Logger
}

func NewHandler(
	cfg *env.Config,
	controller *dialogue.Controller,
	calls CallPlacer,
	issuer *apikey.Issuer,
	store session.Store,
	aiManager *ai.Manager,
	auditLog *audit.Logger,
) *Handler {
	return &Handler{
		cfg:        cfg,
		controller: controller,
		calls:      calls,
		issuer:     issuer,
		store:      store,
		aiManager:  aiManager,
		audit:      auditLog,
		logger:     logger.Log,
	}
}

// WithLogger replaces the handler's logger.
func (h *Handler) WithLogger(l *zap.Logger) *Handler {
	h.logger = l
	return h
}
