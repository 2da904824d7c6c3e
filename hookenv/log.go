// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"context"
	"fmt"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

// LogWriterName is the name the juju-log writer is registered under.
const LogWriterName = "juju-log"

// LogWriter is a loggo.Writer sending entries to the unit log.
type LogWriter struct {
	env *Environment
}

// NewLogWriter returns a LogWriter logging through env.
func NewLogWriter(env *Environment) *LogWriter {
	return &LogWriter{env: env}
}

// Write implements loggo.Writer. Entries that cannot be written are
// dropped; logging them would loop back here.
func (w *LogWriter) Write(entry loggo.Entry) {
	message := entry.Message
	if entry.Module != "" {
		message = fmt.Sprintf("%s: %s", entry.Module, message)
	}
	_ = w.env.Log(context.Background(), entry.Level, message)
}

// RegisterLogWriter routes log entries at level and above to the unit log.
func RegisterLogWriter(env *Environment, level loggo.Level) error {
	writer := loggo.NewMinimumLevelWriter(NewLogWriter(env), level)
	return errors.Trace(loggo.RegisterWriter(LogWriterName, writer))
}
