package notify_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"minutes/internal/config"
	"minutes/internal/notify"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCapture(t *testing.T) (*httptest.Server, *[]captured) {
	t.Helper()
	var requests []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newNtfyConfig(topic string) *config.Config {
	cfg := config.Default()
	cfg.Notify.Enabled = true
	cfg.Notify.Topic = topic
	return &cfg
}

func TestNewServiceReturnsNoopWhenUnconfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Notify.Enabled = false
	svc := notify.NewService(&cfg)
	if err := svc.NotifyExportCompleted(context.Background(), "Standup", "/tmp/x.md"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}

	cfg.Notify.Enabled = true
	cfg.Notify.Topic = "   "
	svc = notify.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop notifier for blank topic, got %v", err)
	}
}

func TestNotifyExportCompleted(t *testing.T) {
	srv, requests := newCapture(t)
	svc := notify.NewService(newNtfyConfig(srv.URL))

	if err := svc.NotifyExportCompleted(context.Background(), "Weekly Sync", "/exports/sync.md"); err != nil {
		t.Fatalf("NotifyExportCompleted: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("request count = %d", len(*requests))
	}
	got := (*requests)[0]
	if got.title != "Minutes - Export Complete" {
		t.Fatalf("title = %q", got.title)
	}
	if got.tags != "minutes,export,completed" {
		t.Fatalf("tags = %q", got.tags)
	}
	if !strings.Contains(got.body, "Weekly Sync") || !strings.Contains(got.body, "/exports/sync.md") {
		t.Fatalf("body = %q", got.body)
	}
}

func TestNotifyErrorUsesHighPriority(t *testing.T) {
	srv, requests := newCapture(t)
	svc := notify.NewService(newNtfyConfig(srv.URL))

	if err := svc.NotifyError(context.Background(), io.ErrUnexpectedEOF, "export"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	got := (*requests)[0]
	if got.priority != "high" {
		t.Fatalf("priority = %q", got.priority)
	}
	if !strings.Contains(got.body, "unexpected EOF") || !strings.Contains(got.body, "Context: export") {
		t.Fatalf("body = %q", got.body)
	}
}

func TestDedupWindowDropsRepeats(t *testing.T) {
	srv, requests := newCapture(t)
	cfg := newNtfyConfig(srv.URL)
	cfg.Notify.DedupWindowSeconds = 60
	svc := notify.NewService(cfg)
	ctx := context.Background()

	if err := svc.NotifySessionArchived(ctx, "Standup", 10); err != nil {
		t.Fatalf("first notify: %v", err)
	}
	if err := svc.NotifySessionArchived(ctx, "Standup", 12); err != nil {
		t.Fatalf("repeat notify: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("dedup failed, request count = %d", len(*requests))
	}

	// A different meeting title is a different dedup key.
	if err := svc.NotifySessionArchived(ctx, "Retro", 5); err != nil {
		t.Fatalf("other title notify: %v", err)
	}
	if len(*requests) != 2 {
		t.Fatalf("request count = %d", len(*requests))
	}
}

func TestTestNotificationBypassesDedup(t *testing.T) {
	srv, requests := newCapture(t)
	cfg := newNtfyConfig(srv.URL)
	cfg.Notify.DedupWindowSeconds = 60
	svc := notify.NewService(cfg)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.TestNotification(ctx); err != nil {
			t.Fatalf("TestNotification %d: %v", i, err)
		}
	}
	if len(*requests) != 2 {
		t.Fatalf("test notifications deduped: %d", len(*requests))
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	svc := notify.NewService(newNtfyConfig(srv.URL))
	err := svc.TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}
