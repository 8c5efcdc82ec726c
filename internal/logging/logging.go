/*
DESCRIPTION
  logging.go defines the Logger interface used throughout atmopipe and a
  zap-backed implementation.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package logging provides the Logger handle that every long-lived atmopipe
// component takes by constructor injection, rather than calling through
// package-level log functions.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels, ordered least to most severe. NONE suppresses everything.
const (
	Debug int8 = iota
	Info
	Warning
	Error
	Fatal
	None
)

// Logger is implemented by anything that can receive atmopipe's log output.
// Components depend on this interface, never on a concrete sink, so tests
// can supply a *testing.T-backed implementation (see testlog.go).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
	SetLevel(lvl int8)
	Log(lvl int8, msg string, args ...interface{})
}

// zapLogger adapts a zap.SugaredLogger to the Logger interface and keeps a
// suppression level that drops messages below it.
type zapLogger struct {
	sugar *zap.SugaredLogger
	level int8
}

// New constructs a Logger that writes to w (typically an io.MultiWriter
// combining a lumberjack.Logger with any other sink). suppress, when true,
// drops Debug and Info messages regardless of level until raised via
// SetLevel.
func New(level int8, w io.Writer, suppress bool) Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel)
	l := &zapLogger{sugar: zap.New(core).Sugar(), level: level}
	if suppress && level < Warning {
		l.level = Warning
	}
	return l
}

func (l *zapLogger) SetLevel(lvl int8) { l.level = lvl }

func (l *zapLogger) Log(lvl int8, msg string, args ...interface{}) {
	if lvl < l.level {
		return
	}
	switch lvl {
	case Debug:
		l.sugar.Debugw(msg, args...)
	case Info:
		l.sugar.Infow(msg, args...)
	case Warning:
		l.sugar.Warnw(msg, args...)
	case Error:
		l.sugar.Errorw(msg, args...)
	case Fatal:
		l.sugar.Fatalw(msg, args...)
	}
}

func (l *zapLogger) Debug(msg string, args ...interface{})   { l.Log(Debug, msg, args...) }
func (l *zapLogger) Info(msg string, args ...interface{})    { l.Log(Info, msg, args...) }
func (l *zapLogger) Warning(msg string, args ...interface{}) { l.Log(Warning, msg, args...) }
func (l *zapLogger) Error(msg string, args ...interface{})   { l.Log(Error, msg, args...) }
func (l *zapLogger) Fatal(msg string, args ...interface{})   { l.Log(Fatal, msg, args...) }
