// Package logger is a thin facade over zap with the printf style call
// sites the rest of the server uses.
package logger

import (
	"go.uber.org/zap"
)

var (
	enabled = true
	sugar   *zap.SugaredLogger
)

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	sugar = l.Sugar()
}

// EnableLogging flips log output on or off globally; tests turn it off.
func EnableLogging(b bool) {
	enabled = b
}

func Info(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	sugar.Infof(msg, v...)
}

func Error(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	sugar.Errorf(msg, v...)
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	sugar.Sync()
}
