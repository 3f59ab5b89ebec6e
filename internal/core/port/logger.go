package port

// Fields is the structured-context payload attached to every log entry.
type Fields map[string]interface{}

// LoggerPort abstracts the logging backend so the core never imports a
// concrete logging library.
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	WithFields(fields Fields) LoggerPort
}
