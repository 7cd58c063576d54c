package core

// Logger interface for renderer and loader logging
type Logger interface {
	Printf(format string, args ...interface{})
}
