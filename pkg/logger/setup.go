package logger

import (
	"os"
)

// SetupLogger builds the process logger from resolved settings.
func SetupLogger(logLevel string, logJSON, logSource bool) Logger {
	return NewLogger(&Config{
		Level:      ParseLevel(logLevel),
		Output:     os.Stderr,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	})
}
