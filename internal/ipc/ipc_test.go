package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"minutes/internal/daemon"
	"minutes/internal/ipc"
	"minutes/internal/logging"
	"minutes/internal/session"
	"minutes/internal/testsupport"
)

func setupIPC(t *testing.T) (*ipc.Client, *daemon.Daemon) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	socketPath := filepath.Join(cfg.Paths.DataDir, "test.sock")
	srv, err := ipc.NewServer(ctx, socketPath, d, logging.NewNop())
	if err != nil {
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	client, err := ipc.Dial(socketPath)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		cancel()
		srv.Close()
		d.Close()
	})
	return client, d
}

func TestSaveAndListSessions(t *testing.T) {
	client, _ := setupIPC(t)

	saveResp, err := client.SaveSessionHistory(ipc.SaveSessionHistoryRequest{
		Title:      "Weekly Sync",
		Transcript: testsupport.Transcript(3, "Alice", "Bob"),
		Report:     testsupport.Report(0, "Alice", "Bob"),
	})
	if err != nil {
		t.Fatalf("SaveSessionHistory: %v", err)
	}
	if !saveResp.Saved || saveResp.SessionID == "" {
		t.Fatalf("unexpected save response: %+v", saveResp)
	}

	listResp, err := client.Sessions()
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(listResp.Sessions) != 1 {
		t.Fatalf("session count = %d", len(listResp.Sessions))
	}
	summary := listResp.Sessions[0]
	if summary.ID != saveResp.SessionID || summary.Title != "Weekly Sync" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.CaptionCount != 3 || summary.AttendeeCount != 2 {
		t.Fatalf("unexpected counts: %+v", summary)
	}

	describeResp, err := client.SessionDescribe(ipc.SessionDescribeRequest{ID: saveResp.SessionID})
	if err != nil {
		t.Fatalf("SessionDescribe: %v", err)
	}
	if len(describeResp.Transcript) != 3 {
		t.Fatalf("transcript length = %d", len(describeResp.Transcript))
	}
	if describeResp.Report == nil || describeResp.Report.TotalUniqueAttendees != 2 {
		t.Fatalf("unexpected report: %+v", describeResp.Report)
	}
}

func TestSaveSessionHistoryBrokenTranscriptFailsSoft(t *testing.T) {
	client, _ := setupIPC(t)

	resp, err := client.SaveSessionHistory(ipc.SaveSessionHistoryRequest{
		Title:      "Broken",
		Transcript: []session.TranscriptEntry{{Time: "10:00"}},
	})
	if err != nil {
		t.Fatalf("expected soft failure, got rpc error: %v", err)
	}
	if resp.Saved {
		t.Fatal("broken transcript must not save")
	}
}

func TestDownloadCaptionsOverIPC(t *testing.T) {
	client, _ := setupIPC(t)

	resp, err := client.DownloadCaptions(ipc.DownloadCaptionsRequest{
		Title:      "Standup",
		Transcript: testsupport.Transcript(2, "Alice"),
		Format:     "txt",
	})
	if err != nil {
		t.Fatalf("DownloadCaptions: %v", err)
	}
	if !resp.Saved || resp.Format != "txt" || resp.Path == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSaveOnLeaveOverIPC(t *testing.T) {
	client, _ := setupIPC(t)

	req := ipc.SaveOnLeaveRequest{
		Title:          "Standup",
		Transcript:     testsupport.Transcript(2, "Alice"),
		RecordingStart: "10:00",
	}
	resp, err := client.SaveOnLeave(req)
	if err != nil {
		t.Fatalf("SaveOnLeave: %v", err)
	}
	if !resp.Saved {
		t.Fatalf("first save skipped: %s", resp.Reason)
	}

	resp, err = client.SaveOnLeave(req)
	if err != nil {
		t.Fatalf("SaveOnLeave repeat: %v", err)
	}
	if resp.Saved || resp.Reason == "" {
		t.Fatalf("duplicate save not skipped: %+v", resp)
	}
}

func TestDisplayCaptionsOverIPC(t *testing.T) {
	client, _ := setupIPC(t)

	transcript := testsupport.Transcript(2, "Alice")
	if _, err := client.DisplayCaptions(ipc.DisplayCaptionsRequest{Transcript: transcript}); err != nil {
		t.Fatalf("DisplayCaptions: %v", err)
	}

	resp, err := client.DisplayedCaptions()
	if err != nil {
		t.Fatalf("DisplayedCaptions: %v", err)
	}
	if len(resp.Transcript) != 2 || resp.Transcript[0].Text != "line 0" {
		t.Fatalf("unexpected transcript: %+v", resp.Transcript)
	}
}

func TestStoreScreenshotOverIPC(t *testing.T) {
	client, _ := setupIPC(t)

	resp, err := client.StoreScreenshot(ipc.StoreScreenshotRequest{
		MeetingID:  "meeting-1",
		Screenshot: session.Screenshot{DataURL: "data:image/png;base64,AAA", Timestamp: 1000},
	})
	if err != nil {
		t.Fatalf("StoreScreenshot: %v", err)
	}
	if !resp.Stored || resp.Count != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if _, err := client.StoreScreenshot(ipc.StoreScreenshotRequest{MeetingID: ""}); err == nil {
		t.Fatal("expected error for missing meeting id")
	}

	list, err := client.Screenshots(ipc.ScreenshotsRequest{MeetingID: "meeting-1"})
	if err != nil {
		t.Fatalf("Screenshots: %v", err)
	}
	if len(list.Screenshots) != 1 || list.Screenshots[0].Timestamp != 1000 {
		t.Fatalf("unexpected screenshots: %+v", list.Screenshots)
	}
	if _, err := client.Screenshots(ipc.ScreenshotsRequest{MeetingID: ""}); err == nil {
		t.Fatal("expected error for missing meeting id")
	}
}

func TestSetAliasesAffectsExports(t *testing.T) {
	client, _ := setupIPC(t)

	if _, err := client.SetAliases(ipc.SetAliasesRequest{Aliases: map[string]string{"a.smith": "Alice Smith"}}); err != nil {
		t.Fatalf("SetAliases: %v", err)
	}

	resp, err := client.DownloadCaptions(ipc.DownloadCaptionsRequest{
		Title:      "Standup",
		Transcript: testsupport.Transcript(1, "a.smith"),
		Format:     "txt",
	})
	if err != nil {
		t.Fatalf("DownloadCaptions: %v", err)
	}
	if !resp.Saved {
		t.Fatal("export did not save")
	}
}

func TestReportErrorAndStatus(t *testing.T) {
	client, d := setupIPC(t)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	if _, err := client.ReportError(ipc.ReportErrorRequest{Message: "tab crashed"}); err != nil {
		t.Fatalf("ReportError: %v", err)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Running {
		t.Fatal("status should report running")
	}
	if status.LastError != "tab crashed" {
		t.Fatalf("last error = %q", status.LastError)
	}
	if status.PID <= 0 {
		t.Fatalf("pid = %d", status.PID)
	}
}

func TestSessionDeleteOverIPC(t *testing.T) {
	client, _ := setupIPC(t)

	saveResp, err := client.SaveSessionHistory(ipc.SaveSessionHistoryRequest{
		Title:      "Doomed",
		Transcript: testsupport.Transcript(1),
	})
	if err != nil {
		t.Fatalf("SaveSessionHistory: %v", err)
	}

	delResp, err := client.SessionDelete(ipc.SessionDeleteRequest{ID: saveResp.SessionID})
	if err != nil {
		t.Fatalf("SessionDelete: %v", err)
	}
	if !delResp.Deleted {
		t.Fatal("session not deleted")
	}

	if _, err := client.SessionDelete(ipc.SessionDeleteRequest{ID: saveResp.SessionID}); err == nil {
		t.Fatal("expected error deleting a missing session")
	}
	if _, err := client.SessionDelete(ipc.SessionDeleteRequest{}); err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("expected id-required error, got %v", err)
	}
}

func TestStopOverIPC(t *testing.T) {
	client, d := setupIPC(t)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	resp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !resp.Stopped {
		t.Fatal("stop not acknowledged")
	}
	select {
	case <-d.Done():
	default:
		t.Fatal("daemon Done not closed after Stop")
	}
}
