package simplex

// Logger receives iteration traces and diagnostics. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Printf(format string, v ...interface{}) {}
