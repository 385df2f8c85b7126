package logger

// NoopLogger is a logger that discards all output. Used in tests.
type NoopLogger struct{}

// NewNoop creates a no-op logger.
func NewNoop() Interface {
	return &NoopLogger{}
}

func (n *NoopLogger) Debug(msg string, fields ...any) {}
func (n *NoopLogger) Info(msg string, fields ...any)  {}
func (n *NoopLogger) Warn(msg string, fields ...any)  {}
func (n *NoopLogger) Error(msg string, fields ...any) {}
func (n *NoopLogger) Fatal(msg string, fields ...any) {}

func (n *NoopLogger) With(fields ...any) Interface { return n }

func (n *NoopLogger) WithComponent(component string) Interface { return n }

func (n *NoopLogger) WithError(err error) Interface { return n }
