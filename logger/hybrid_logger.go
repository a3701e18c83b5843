package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	slogmulti "github.com/samber/slog-multi"
)

// Logger is the interface for application-wide logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	FlushWebhook() error
}

// hybridLogger outputs to stdout in real-time and buffers logs for webhook.
type hybridLogger struct {
	logger     *slog.Logger
	buffer     *recordBuffer // nil when no webhook is configured
	client     *resty.Client
	webhookURL string
	appName    string
	env        string
}

// NewHybridLogger creates a new hybrid logger.
func NewHybridLogger(cfg Config) Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel()}
	handlers := []slog.Handler{slog.NewJSONHandler(output, opts)}

	h := &hybridLogger{
		webhookURL: cfg.WebhookURL,
		appName:    cfg.AppName,
		env:        cfg.Environment,
	}
	if cfg.WebhookURL != "" {
		h.buffer = &recordBuffer{}
		h.client = resty.New().SetTimeout(webhookTimeout)
		handlers = append(handlers, &bufferHandler{buf: h.buffer, level: opts.Level})
	}
	h.logger = slog.New(slogmulti.Fanout(handlers...))
	return h
}

func (h *hybridLogger) log(level slog.Level, msg string, args ...interface{}) {
	h.logger.Log(context.Background(), level, msg, args...)
}

func (h *hybridLogger) Debug(msg string, args ...interface{}) { h.log(slog.LevelDebug, msg, args...) }
func (h *hybridLogger) Info(msg string, args ...interface{})  { h.log(slog.LevelInfo, msg, args...) }
func (h *hybridLogger) Warn(msg string, args ...interface{})  { h.log(slog.LevelWarn, msg, args...) }
func (h *hybridLogger) Error(msg string, args ...interface{}) { h.log(slog.LevelError, msg, args...) }

// FlushWebhook sends every buffered record to the webhook and empties the buffer.
// Records are dropped if the webhook rejects them.
func (h *hybridLogger) FlushWebhook() error {
	if h.buffer == nil {
		return nil
	}
	logs := h.buffer.drain()
	if len(logs) == 0 {
		return nil
	}
	return sendToWebhook(h.client, h.webhookURL, h.appName, h.env, logs)
}

// recordBuffer collects records for the webhook. Safe for concurrent use.
type recordBuffer struct {
	mu      sync.Mutex
	records []slog.Record
}

func (b *recordBuffer) add(r slog.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, r)
}

func (b *recordBuffer) drain() []slog.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	logs := make([]slog.Record, len(b.records))
	copy(logs, b.records)
	b.records = b.records[:0]
	return logs
}

// bufferHandler is a slog.Handler that stores records in a recordBuffer.
// Groups are flattened.
type bufferHandler struct {
	buf   *recordBuffer
	level slog.Leveler
	attrs []slog.Attr
}

var _ slog.Handler = (*bufferHandler)(nil)

func (b *bufferHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= b.level.Level()
}

func (b *bufferHandler) Handle(_ context.Context, r slog.Record) error {
	rec := r.Clone()
	rec.AddAttrs(b.attrs...)
	b.buf.add(rec)
	return nil
}

func (b *bufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	merged = append(merged, b.attrs...)
	merged = append(merged, attrs...)
	return &bufferHandler{buf: b.buf, level: b.level, attrs: merged}
}

func (b *bufferHandler) WithGroup(string) slog.Handler {
	return b
}

const webhookTimeout = 10 * time.Second
