// Package logging builds the zap loggers used across the binary.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a console logger writing to w at the given level.
func New(w io.Writer, level string, color bool) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), lvl)
	return zap.New(core).Sugar(), nil
}

// Stdout is the logger for long running commands such as serve.
func Stdout(level string) (*zap.SugaredLogger, error) {
	return New(os.Stdout, level, true)
}

// File appends to path, creating its directory. The interactive UI owns the
// terminal, so it logs here. An empty path discards everything.
func File(path, level string) (*zap.SugaredLogger, func(), error) {
	if path == "" {
		return zap.NewNop().Sugar(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(f, level, false)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}, nil
}
