package types

// Logger is the sink the protocol core emits structured log lines to.
// Shaped the same way as the teacher's pkg/mcast/types.Logger so a
// caller can drop in the default implementation or their own.
type Logger interface {
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	ToggleDebug(value bool) bool
}
