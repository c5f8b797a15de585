// Package api wires the HTTP surface: Twilio webhooks, the call gateway and
// the operational endpoints.
package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/internal/api/handlers"
	"github.com/troikatech/kisan-voicebot/pkg/apikey"
	"github.com/troikatech/kisan-voicebot/pkg/env"
	"github.com/troikatech/kisan-voicebot/pkg/middleware"
	"github.com/troikatech/kisan-voicebot/pkg/otel"
	"github.com/troikatech/kisan-voicebot/pkg/session"
)

const maxRequestBytes = 1 << 20

// RouterDeps are the shared pieces the middleware chain needs.
type RouterDeps struct {
	Issuer  *apikey.Issuer
	Store   session.Store
	Counter middleware.Counter
	Logger  *zap.Logger
}

func NewRouter(cfg *env.Config, h *handlers.Handler, deps RouterDeps) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(maxRequestBytes))
	router.Use(middleware.TraceMiddleware())

	if cfg.OTELEnabled {
		router.Use(otel.GinMiddleware())
	}

	router.Use(middleware.RequestLogger(deps.Logger))

	corsConfig := cors.DefaultConfig()
	if cfg.CORSAllowedOrigins == "*" || cfg.CORSAllowedOrigins == "" {
		corsConfig.AllowAllOrigins = true
	} else {
		for _, origin := range strings.Split(cfg.CORSAllowedOrigins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
			}
		}
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", middleware.APIKeyHeader, middleware.IdempotencyKeyHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", h.GetMetrics)

	// Twilio webhooks always answer 200 with TwiML, even when rejected.
	voice := router.Group("/voice")
	voice.Use(middleware.TwilioSignature(cfg.TwilioAuthToken, cfg.BaseURL, cfg.Debug, deps.Logger))
	{
		voice.POST("", h.VoiceWebhook)
		voice.POST("/set-language", h.SetLanguage)
		voice.POST("/language-menu", h.LanguageMenu)
		voice.POST("/status", h.CallStatus)
	}

	keyIssueLimiter := middleware.NewKeyIssueLimiter(deps.Counter, cfg.KeyIssueMaxPerHour, deps.Logger)
	router.POST("/generate-api-key", keyIssueLimiter.Middleware(), h.GenerateAPIKey)

	rateLimiter := middleware.NewRateLimiter(deps.Counter, cfg.APIRateLimitRPM, deps.Logger)
	router.POST("/initiate-call",
		rateLimiter.Middleware(),
		middleware.APIKey(deps.Issuer, cfg.RequireAPIKey, deps.Logger),
		middleware.IdempotencyMiddleware(deps.Store, deps.Logger),
		h.InitiateCall,
	)

	return router
}
