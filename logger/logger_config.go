package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Level is the minimum severity a logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// levelTable maps each Level to its name and slog level. LevelInfo is the fallback.
var levelTable = []struct {
	level Level
	name  string
	slog  slog.Level
}{
	{LevelDebug, "debug", slog.LevelDebug},
	{LevelInfo, "info", slog.LevelInfo},
	{LevelWarn, "warn", slog.LevelWarn},
	{LevelError, "error", slog.LevelError},
}

func (l Level) String() string {
	for _, e := range levelTable {
		if e.level == l {
			return e.name
		}
	}
	return LevelInfo.String()
}

// slogLevel converts l to the equivalent slog.Level.
func (l Level) slogLevel() slog.Level {
	for _, e := range levelTable {
		if e.level == l {
			return e.slog
		}
	}
	return slog.LevelInfo
}

// ParseLevel parses a level name case-insensitively. Unknown names yield LevelInfo.
func ParseLevel(name string) Level {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range levelTable {
		if e.name == name {
			return e.level
		}
	}
	return LevelInfo
}

// Config holds configuration for the logger.
type Config struct {
	Level       Level
	WebhookURL  string    // buffered records are posted here by FlushWebhook; empty disables buffering
	AppName     string    // attached to webhook payloads
	Environment string    // attached to webhook payloads
	Output      io.Writer // JSON log destination; nil means os.Stdout
}
