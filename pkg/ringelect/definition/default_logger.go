// Package definition holds the default implementations of the
// interfaces declared in pkg/ringelect/types: a logger backed by the
// teacher's own logging stack, and two Storage backends.
package definition

import (
	plog "github.com/prometheus/common/log"

	"github.com/jabolina/go-ringelect/pkg/ringelect/types"
)

// DefaultLogger is the Logger used when a caller does not provide their
// own. It wraps prometheus/common/log (itself a thin façade over
// sirupsen/logrus), the exact stack the teacher library declares in its
// go.mod and exercises from pkg/mcast/core/transport.go.
type DefaultLogger struct {
	backend plog.Logger
	debug   bool
}

var _ types.Logger = (*DefaultLogger)(nil)

// NewDefaultLogger builds a logger against the package-level prometheus
// base logger, debug output disabled by default.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{backend: plog.Base()}
}

// WithRunID returns a child logger that tags every line with run_id,
// so a batch of concurrently running simulations (see cmd/ringelectsim)
// can be told apart in a shared log stream.
func (l *DefaultLogger) WithRunID(runID string) *DefaultLogger {
	return &DefaultLogger{backend: l.backend.With("run_id", runID), debug: l.debug}
}

func (l *DefaultLogger) Info(v ...interface{})                 { l.backend.Info(v...) }
func (l *DefaultLogger) Infof(format string, v ...interface{}) { l.backend.Infof(format, v...) }
func (l *DefaultLogger) Warn(v ...interface{})                 { l.backend.Warn(v...) }
func (l *DefaultLogger) Warnf(format string, v ...interface{}) { l.backend.Warnf(format, v...) }
func (l *DefaultLogger) Error(v ...interface{})                { l.backend.Error(v...) }
func (l *DefaultLogger) Errorf(format string, v ...interface{}) {
	l.backend.Errorf(format, v...)
}

func (l *DefaultLogger) Debug(v ...interface{}) {
	if l.debug {
		l.backend.Debug(v...)
	}
}

func (l *DefaultLogger) Debugf(format string, v ...interface{}) {
	if l.debug {
		l.backend.Debugf(format, v...)
	}
}

func (l *DefaultLogger) ToggleDebug(value bool) bool {
	l.debug = value
	return l.debug
}
