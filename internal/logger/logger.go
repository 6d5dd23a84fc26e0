// Package logger builds the zap logger used across the service.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a zap logger. Production mode emits JSON at info
// level, everything else gets the human-readable development
// encoder. levelEnv overrides the default level when it parses.
func New(levelEnv string, prod bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if prod {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if levelEnv != "" {
		if err := cfg.Level.UnmarshalText([]byte(levelEnv)); err != nil {
			fmt.Printf("bad LOG_LEVEL=%s, using default\n", levelEnv)
		}
	}
	return cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
}

// Must is New but panics on failure; used at startup where a
// missing logger is not survivable.
func Must(levelEnv string, prod bool) *zap.Logger {
	l, err := New(levelEnv, prod)
	if err != nil {
		panic(err)
	}
	return l
}
