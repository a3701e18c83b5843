package logger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

type webhookEntry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

type webhookPayload struct {
	App         string         `json:"app"`
	Environment string         `json:"env"`
	Logs        []webhookEntry `json:"logs"`
}

func newWebhookEntry(r slog.Record) webhookEntry {
	entry := webhookEntry{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
	}
	if r.NumAttrs() > 0 {
		entry.Attrs = make(map[string]any, r.NumAttrs())
		r.Attrs(func(a slog.Attr) bool {
			v := a.Value.Resolve().Any()
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			entry.Attrs[a.Key] = v
			return true
		})
	}
	return entry
}

// sendToWebhook posts the buffered records as a single JSON document.
func sendToWebhook(client *resty.Client, webhookURL, appName, env string, logs []slog.Record) error {
	payload := webhookPayload{
		App:         appName,
		Environment: env,
		Logs:        make([]webhookEntry, 0, len(logs)),
	}
	for _, r := range logs {
		payload.Logs = append(payload.Logs, newWebhookEntry(r))
	}

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(webhookURL)
	if err != nil {
		return fmt.Errorf("failed to send logs to webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook rejected logs: %s", resp.Status())
	}
	return nil
}
