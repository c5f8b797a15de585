package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/internal/api"
	"github.com/troikatech/kisan-voicebot/internal/api/handlers"
	"github.com/troikatech/kisan-voicebot/internal/dialogue"
	"github.com/troikatech/kisan-voicebot/pkg/ai"
	"github.com/troikatech/kisan-voicebot/pkg/apikey"
	"github.com/troikatech/kisan-voicebot/pkg/audit"
	"github.com/troikatech/kisan-voicebot/pkg/env"
	"github.com/troikatech/kisan-voicebot/pkg/logger"
	"github.com/troikatech/kisan-voicebot/pkg/middleware"
	"github.com/troikatech/kisan-voicebot/pkg/otel"
	"github.com/troikatech/kisan-voicebot/pkg/session"
	"github.com/troikatech/kisan-voicebot/pkg/twilio"
)

const serviceName = "kisan-voicebot"

// UnifiedServer holds everything the voice webhooks and the call gateway share.
type UnifiedServer struct {
	cfg         *env.Config
	redisClient *redis.Client
	store       session.Store
	counter     middleware.Counter
	issuer      *apikey.Issuer
	aiManager   *ai.Manager
	handler     *handlers.Handler
}

func main() {
	cfg, err := env.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.OTELEnabled {
		shutdown, err := otel.InitTracing(serviceName, "1.0.0", cfg.OTELEndpoint)
		if err != nil {
			logger.Log.Warn("Failed to initialize OpenTelemetry", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
			logger.Log.Info("OpenTelemetry tracing enabled", zap.String("endpoint", cfg.OTELEndpoint))
		}
	}

	logger.Log.Info("Starting voice server",
		zap.String("env", cfg.AppEnv),
		zap.String("port", cfg.AppPort),
		zap.String("base_url", cfg.BaseURL),
		zap.String("session_store", cfg.SessionStore),
	)
	if cfg.Debug {
		logger.Log.Warn("DEBUG is on: webhook signatures are not checked")
	}
	if !cfg.RequireAPIKey {
		logger.Log.Warn("REQUIRE_API_KEY is off: /initiate-call is open to anyone")
	}

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	server, err := newUnifiedServer(rootCtx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize server", zap.Error(err))
	}
	defer server.close()

	router := api.NewRouter(cfg, server.handler, api.RouterDeps{
		Issuer:  server.issuer,
		Store:   server.store,
		Counter: server.counter,
		Logger:  logger.Log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}

func newUnifiedServer(ctx context.Context, cfg *env.Config) (*UnifiedServer, error) {
	s := &UnifiedServer{cfg: cfg}

	if err := s.initStore(ctx); err != nil {
		return nil, err
	}

	s.aiManager = ai.NewManager(buildProviders(cfg), logger.Log)
	if names := s.aiManager.AvailableProviders(); len(names) > 0 {
		logger.Log.Info("AI manager initialized", zap.Strings("providers", names))
	} else {
		logger.Log.Warn("No AI providers available - every turn will get the fallback reply")
	}
	generator := ai.NewGenerator(s.aiManager, cfg.AITimeout(), cfg.AIMaxAttempts, logger.Log)

	renderCfg := twilio.DefaultRenderConfig()
	for locale, voice := range cfg.Voices {
		renderCfg.Voices[locale] = voice
	}
	renderCfg.SpeechRate = cfg.SpeechRate
	renderCfg.SpeechVolume = cfg.SpeechVolume
	renderCfg.SegmentPause = time.Duration(cfg.SegmentPauseSec) * time.Second
	renderCfg.ListenTimeout = time.Duration(cfg.ListenTimeoutSec) * time.Second
	renderer, err := twilio.NewRenderer(renderCfg)
	if err != nil {
		return nil, err
	}

	languages := dialogue.NewLanguages(cfg.DefaultLanguage, cfg.SupportedLanguages)
	if languages.Default.String() != cfg.DefaultLanguage {
		logger.Log.Warn("Unknown DEFAULT_LANGUAGE, using Hindi", zap.String("language", cfg.DefaultLanguage))
	}

	sessions := session.NewSessions(s.store, cfg.SessionTTL())
	auditLog := audit.New(logger.Log)
	controller := dialogue.NewController(sessions, generator, renderer, auditLog, languages, logger.Log)

	twilioClient := twilio.NewClient(cfg.TwilioAPIBaseURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, 10*time.Second)
	if !twilioClient.IsConfigured() {
		logger.Log.Warn("Twilio credentials missing - outbound calls will fail")
	}

	s.issuer = apikey.NewIssuer(s.store, cfg.APIKeyTTL())
	s.handler = handlers.NewHandler(cfg, controller, twilioClient, s.issuer, s.store, s.aiManager, auditLog)
	return s, nil
}

func (s *UnifiedServer) initStore(ctx context.Context) error {
	switch s.cfg.SessionStore {
	case "redis":
		opt, err := redis.ParseURL(s.cfg.RedisURL)
		if err != nil {
			return err
		}
		s.redisClient = redis.NewClient(opt)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.redisClient.Ping(pingCtx).Err(); err != nil {
			return err
		}

		s.store = session.NewRedisStore(s.redisClient, serviceName+":", s.cfg.SessionTTL())
		s.counter = middleware.NewRedisCounter(s.redisClient)
		logger.Log.Info("Redis session store connected")
	default:
		mem := session.NewMemoryStore(s.cfg.SessionTTL())
		mem.Start(ctx, time.Minute)
		s.store = mem
		s.counter = middleware.NewStoreCounter(mem)
		logger.Log.Info("In-memory session store started")
	}
	return nil
}

func (s *UnifiedServer) close() {
	if err := s.store.Close(); err != nil {
		logger.Log.Warn("Failed to close session store", zap.Error(err))
	}
}

// buildProviders returns the configured providers in fallback order.
func buildProviders(cfg *env.Config) []ai.Provider {
	var providers []ai.Provider

	if cfg.GeminiApiKey != "" {
		p := ai.NewGeminiProvider(cfg.GeminiApiKey, cfg.GeminiModel, logger.Log)
		if p.IsAvailable() {
			providers = append(providers, p)
			logger.Log.Info("Gemini provider initialized", zap.String("model", cfg.GeminiModel))
		}
	}

	if cfg.OpenAIApiKey != "" {
		p := ai.NewOpenAIProvider(cfg.OpenAIApiKey, cfg.OpenAIModel, "", logger.Log)
		if p.IsAvailable() {
			providers = append(providers, p)
			logger.Log.Info("OpenAI provider initialized", zap.String("model", cfg.OpenAIModel))
		}
	}

	if cfg.AnthropicApiKey != "" {
		p := ai.NewAnthropicProvider(cfg.AnthropicApiKey, cfg.AnthropicModel, "", logger.Log)
		if p.IsAvailable() {
			providers = append(providers, p)
			logger.Log.Info("Anthropic provider initialized", zap.String("model", cfg.AnthropicModel))
		}
	}

	return providers
}
