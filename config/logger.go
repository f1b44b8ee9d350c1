package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggingConfig struct {
	// Level is one of none, debug or normal.
	Level string `json:"level"`
	// File, when set, receives a copy of the log at the same level.
	File string `json:"file,omitempty"`
}

// Prepare returns the program logger: info (or debug) to stdout, errors to
// stderr, optionally mirrored to a file.
func (conf *LoggingConfig) Prepare() (*zap.Logger, error) {
	var minLevel zapcore.Level
	switch conf.Level {
	case "none":
		return zap.NewNop(), nil
	case "debug":
		minLevel = zapcore.DebugLevel
	case "normal", "":
		minLevel = zapcore.InfoLevel
	default:
		return nil, fmt.Errorf("unknown logging level %q", conf.Level)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(ec)

	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return minLevel <= lvl && lvl < zapcore.ErrorLevel
	})
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lowPriority),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), highPriority),
	}

	if conf.File != "" {
		f, err := os.OpenFile(conf.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(f), zap.NewAtomicLevelAt(minLevel)))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
