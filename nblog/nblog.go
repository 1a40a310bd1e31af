// Package nblog is the structured-logging facade used throughout the module.
// Its interface shape follows the teacher engine's own Logger
// (github.com/gekko3d/gekko logging.go); the default implementation is
// backed by logrus rather than a hand-rolled log.Logger wrapper.
package nblog

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the minimal leveled-logging contract every package depends on.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Fatalf logs at error level then panics. Used for programmer-contract
	// violations, which abort rather than degrade, but must still leave a
	// diagnostic line, mirroring the C original's ASSERT macros.
	Fatalf(format string, args ...any)
}

type logrusLogger struct {
	entry *logrus.Entry
}

// New returns a Logger backed by logrus, writing to stderr with the given
// component name attached to every line.
func New(component string) Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logrusLogger{entry: l.WithField("component", component)}
}

func (l *logrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

func (l *logrusLogger) Fatalf(format string, args ...any) {
	l.entry.Errorf(format, args...)
	panic(fmt.Sprintf(format, args...))
}

type nopLogger struct{}

// Nop returns a Logger that discards everything except Fatalf, which still
// panics (contract violations must never be silently swallowed).
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
func (nopLogger) Fatalf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
