package granule_sync

import "fmt"

// Logger defines the interface for logging operations within the syncer.
// logger.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// fallbackLogger prints to stdout when no logger is configured.
type fallbackLogger struct{}

func (f *fallbackLogger) Debug(msg string, args ...any) {
	fmt.Printf("[DEBUG] %s\n", formatLogMessage(msg, args...))
}

func (f *fallbackLogger) Info(msg string, args ...any) {
	fmt.Printf("[INFO] %s\n", formatLogMessage(msg, args...))
}

func (f *fallbackLogger) Warn(msg string, args ...any) {
	fmt.Printf("[WARN] %s\n", formatLogMessage(msg, args...))
}

func (f *fallbackLogger) Error(msg string, args ...any) {
	fmt.Printf("[ERROR] %s\n", formatLogMessage(msg, args...))
}

// formatLogMessage formats the log message with key-value pairs.
// In case of an odd number of args, the last one is ignored.
func formatLogMessage(msg string, args ...any) string {
	result := msg
	for i := 0; i+1 < len(args); i += 2 {
		result += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	return result
}
