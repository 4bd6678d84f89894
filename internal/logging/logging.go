package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New - production-логгер zap с уровнем из конфига
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
