// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package commons

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the application-wide logging contract. Formatted and structured
// variants both map onto a zap SugaredLogger underneath.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})

	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	Sync() error
}

type applicationLogger struct {
	*zap.SugaredLogger
}

type loggerOptions struct {
	name  string
	path  string
	level string
}

type LoggerOption func(*loggerOptions)

// Name sets the service name tagged on every log line and used for the
// rotated log file name.
func Name(name string) LoggerOption {
	return func(o *loggerOptions) { o.name = name }
}

// Path sets the directory the rotated log file is written to. Empty path
// logs to stdout only.
func Path(path string) LoggerOption {
	return func(o *loggerOptions) { o.path = path }
}

// Level sets the minimum log level (debug, info, warn, error).
func Level(level string) LoggerOption {
	return func(o *loggerOptions) { o.level = level }
}

// NewApplicationLogger builds the zap-backed logger with stdout output and,
// when a path is configured, lumberjack file rotation alongside it.
func NewApplicationLogger(opts ...LoggerOption) (Logger, error) {
	options := &loggerOptions{
		name:  "pbx-admin",
		level: "info",
	}
	for _, opt := range opts {
		opt(options)
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(options.level)); err != nil {
		return nil, fmt.Errorf("illegal log level %q: %w", options.level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.AddSync(os.Stdout),
			level,
		),
	}

	if options.path != "" {
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(options.path, options.name+".log"),
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.AddSync(rotator),
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller()).
		Named(options.name).
		Sugar()

	return &applicationLogger{SugaredLogger: logger}, nil
}
