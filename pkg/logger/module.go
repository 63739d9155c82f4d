package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/outboundhq/dialer/internal/config"
)

// Module provides the application's *slog.Logger, used everywhere, plus a
// *zap.Logger solely for internal/migrate, whose goose wrapper expects
// zap, and the optional *HTTPLogger access-log sink.
var Module = fx.Module("logger",
	fx.Provide(
		NewLogger,
		NewZapLogger,
		provideHTTPLogger,
	),
)

func provideHTTPLogger(cfg *config.Config) (*HTTPLogger, error) {
	return NewHTTPLogger(cfg.HTTPAccessLogPath)
}

// NewZapLogger builds a production *zap.Logger for internal/migrate.Migrator.
func NewZapLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg.Build()
}
