package service

// Identity is the caller as resolved from the bearer token
type Identity struct {
	UserID string
	Admin  bool
}

// Anonymous reports whether the request carried no token
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
