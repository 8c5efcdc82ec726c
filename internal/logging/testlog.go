package logging

import "testing"

// TestLogger adapts a *testing.T to the Logger interface so package tests
// can exercise components that require a logger without a real sink.
type TestLogger testing.T

func (tl *TestLogger) Debug(msg string, args ...interface{})   { tl.Log(Debug, msg, args...) }
func (tl *TestLogger) Info(msg string, args ...interface{})    { tl.Log(Info, msg, args...) }
func (tl *TestLogger) Warning(msg string, args ...interface{}) { tl.Log(Warning, msg, args...) }
func (tl *TestLogger) Error(msg string, args ...interface{})   { tl.Log(Error, msg, args...) }
func (tl *TestLogger) Fatal(msg string, args ...interface{})   { tl.Log(Fatal, msg, args...) }
func (tl *TestLogger) SetLevel(lvl int8)                       {}

func (tl *TestLogger) Log(lvl int8, msg string, args ...interface{}) {
	var l string
	switch lvl {
	case Debug:
		l = "debug"
	case Info:
		l = "info"
	case Warning:
		l = "warning"
	case Error:
		l = "error"
	case Fatal:
		l = "fatal"
	}
	msg = l + ": " + msg

	if len(args) == 0 {
		((*testing.T)(tl)).Log(msg)
		return
	}

	msg += " ("
	for i := 0; i < len(args); i += 2 {
		msg += " %v:\"%v\""
	}
	msg += " )"

	if lvl == Fatal {
		tl.Fatalf(msg+"\n", args...)
		return
	}
	tl.Logf(msg+"\n", args...)
}
