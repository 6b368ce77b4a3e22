package formstate

// Logger receives debug traces of state transitions. kv holds alternating
// key/value pairs.
type Logger interface {
	Debug(msg string, kv ...any)
}

// LoggerFunc adapts a function into a Logger.
type LoggerFunc func(msg string, kv ...any)

func (fn LoggerFunc) Debug(msg string, kv ...any) {
	fn(msg, kv...)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
