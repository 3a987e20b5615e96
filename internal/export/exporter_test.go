package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minutes/internal/alias"
	"minutes/internal/session"
	"minutes/internal/testsupport"
)

type recordingNotifier struct {
	titles []string
	paths  []string
}

func (n *recordingNotifier) ExportCompleted(_ context.Context, title, path string) {
	n.titles = append(n.titles, title)
	n.paths = append(n.paths, path)
}

func TestExportWritesFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	notifier := &recordingNotifier{}
	exporter := New(cfg, nil, notifier)

	result, err := exporter.Export(context.Background(), Request{
		Title:      "Weekly Sync",
		Transcript: testsupport.Transcript(2, "Alice"),
		Format:     "txt",
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Format != "txt" || result.MIMEType != "text/plain" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if filepath.Ext(result.Path) != ".txt" {
		t.Fatalf("unexpected extension: %s", result.Path)
	}
	if filepath.Dir(result.Path) != cfg.Paths.ExportDir {
		t.Fatalf("export landed outside the configured directory: %s", result.Path)
	}

	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "Alice: line 1") {
		t.Fatalf("unexpected content: %q", string(data))
	}
	if len(notifier.titles) != 1 || notifier.titles[0] != "Weekly Sync" {
		t.Fatalf("notifier not invoked: %+v", notifier)
	}
}

func TestExportFallsBackToDefaultFormat(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	exporter := New(cfg, nil, nil)

	result, err := exporter.Export(context.Background(), Request{
		Title:      "Standup",
		Transcript: testsupport.Transcript(1, "Alice"),
		Format:     "pdf",
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Format != cfg.Export.DefaultFormat {
		t.Fatalf("expected fallback to %q, got %q", cfg.Export.DefaultFormat, result.Format)
	}
}

func TestExportAppliesAliases(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	exporter := New(cfg, nil, nil)

	result, err := exporter.Export(context.Background(), Request{
		Title:      "Standup",
		Transcript: testsupport.Transcript(1, "a.smith"),
		Format:     "txt",
		Aliases:    alias.Map{"a.smith": "Alice Smith"},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "Alice Smith:") {
		t.Fatalf("alias not applied: %q", string(data))
	}
}

func TestExportAttendeeSummaryDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Export.AttendeeSummary = false
	exporter := New(cfg, nil, nil)

	result, err := exporter.Export(context.Background(), Request{
		Title:      "Standup",
		Transcript: testsupport.Transcript(1, "Alice"),
		Format:     "txt",
		Report:     testsupport.Report(0, "Alice"),
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if strings.Contains(string(data), "MEETING ATTENDEES") {
		t.Fatalf("attendee summary rendered while disabled: %q", string(data))
	}
}

func TestExportDirOverride(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	exporter := New(cfg, nil, nil)
	dir := filepath.Join(t.TempDir(), "downloads")

	result, err := exporter.Export(context.Background(), Request{
		Title:      "Standup",
		Transcript: testsupport.Transcript(1, "Alice"),
		Format:     "md",
		Dir:        dir,
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Dir(result.Path) != dir {
		t.Fatalf("override ignored: %s", result.Path)
	}
}

func TestExportRejectsBrokenTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	exporter := New(cfg, nil, nil)

	_, err := exporter.Export(context.Background(), Request{
		Title:      "Standup",
		Transcript: []session.TranscriptEntry{{Time: "10:00"}},
		Format:     "txt",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}
