// Package notify posts best-effort push notifications (ntfy) when exports
// and archival saves complete. Nothing in the capture path depends on a
// notification succeeding: failures are logged by callers and otherwise
// swallowed, and repeated notifications inside the dedup window are dropped.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"minutes/internal/config"
)

const userAgent = "minutes/0.1.0"

// Service defines the notification surface exposed to the daemon.
type Service interface {
	NotifyExportCompleted(ctx context.Context, title, path string) error
	NotifySessionArchived(ctx context.Context, title string, captionCount int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When notifications are disabled or no topic is configured, a noop
// implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notify.Topic)
	if !cfg.Notify.Enabled || topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notify.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		dedupWindow: time.Duration(cfg.Notify.DedupWindowSeconds) * time.Second,
		lastSent:    make(map[string]time.Time),
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	dedupWindow time.Duration

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func (n *ntfyService) NotifyExportCompleted(ctx context.Context, title, path string) error {
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Minutes - Export Complete",
		message: fmt.Sprintf("Transcript exported: %s\n%s", title, path),
		tags:    []string{"minutes", "export", "completed"},
	}
	return n.send(ctx, "export:"+title, data)
}

func (n *ntfyService) NotifySessionArchived(ctx context.Context, title string, captionCount int) error {
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Minutes - Session Archived",
		message: fmt.Sprintf("Session archived: %s (%d captions)", title, captionCount),
		tags:    []string{"minutes", "archive", "completed"},
	}
	return n.send(ctx, "archive:"+title, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, errContext string) error {
	var builder strings.Builder
	builder.WriteString("Error: ")
	if err != nil {
		builder.WriteString(err.Error())
	} else {
		builder.WriteString("unknown")
	}
	if errContext = strings.TrimSpace(errContext); errContext != "" {
		builder.WriteString("\nContext: ")
		builder.WriteString(errContext)
	}
	data := payload{
		title:    "Minutes - Error",
		message:  builder.String(),
		tags:     []string{"minutes", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, "error", data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Minutes - Test",
		message:  "Notification system test",
		tags:     []string{"minutes", "test"},
		priority: "low",
	}
	return n.send(ctx, "", data)
}

// send drops notifications repeating the same dedup key inside the window.
// An empty key bypasses deduplication.
func (n *ntfyService) send(ctx context.Context, dedupKey string, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	if dedupKey != "" && n.dedupWindow > 0 {
		n.mu.Lock()
		if last, ok := n.lastSent[dedupKey]; ok && time.Since(last) < n.dedupWindow {
			n.mu.Unlock()
			return nil
		}
		n.lastSent[dedupKey] = time.Now()
		n.mu.Unlock()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyExportCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifySessionArchived(context.Context, string, int) error    { return nil }
func (noopService) NotifyError(context.Context, error, string) error            { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
