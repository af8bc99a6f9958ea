// Package vmlog wires the VM's lifecycle events to
// github.com/tliron/commonlog. The VM reports thread spawn, thread
// recycle, and a DESYNC that fails on an exhausted thread pool; chunk
// load, thread termination, and heap growth are not logged.
package vmlog

import (
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const loggerName = "lican.vm"

// Logger adapts commonlog's logger to bytecode.Logger's single Infof
// method, which is all the VM's lifecycle events need.
type Logger struct {
	backend commonlog.Logger
}

// New configures the simple commonlog backend at the given verbosity
// (0 = errors only, higher values add info/debug output) and returns a
// Logger ready to pass to bytecode.NewRunState.
func New(verbosity int) *Logger {
	commonlog.Initialize(verbosity, "")
	return &Logger{backend: commonlog.GetLogger(loggerName)}
}

// Infof logs a formatted info-level message.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil || l.backend == nil {
		return
	}
	l.backend.Infof(format, args...)
}
