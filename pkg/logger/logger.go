package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log = zap.NewNop()

func Init(level string, env string) error {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl := zapcore.InfoLevel
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	l, err := config.Build(zap.Fields(zap.String("service", "kisan-voicebot")))
	if err != nil {
		return err
	}

	Log = l
	return nil
}

// ForCall scopes a logger to one phone call.
func ForCall(base *zap.Logger, callSid string) *zap.Logger {
	if base == nil {
		base = Log
	}
	return base.With(zap.String("call_sid", callSid))
}

func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
