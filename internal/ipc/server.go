package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"

	"log/slog"

	"minutes/internal/daemon"
	"minutes/internal/logging"
	"minutes/internal/session"
)

// Server exposes the capture dispatch surface via JSON-RPC over a Unix
// domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Minutes", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String("component", "ipc"))
}

// SaveSessionHistory archives a session. Persistence failures are logged and
// reported as saved=false, never as RPC errors.
func (s *service) SaveSessionHistory(req SaveSessionHistoryRequest, resp *SaveSessionHistoryResponse) error {
	meta, err := s.daemon.SaveSessionHistory(s.ctx, req.Title, req.Transcript, req.Report)
	if err != nil {
		s.log().Error("save session history", logging.Error(err))
		resp.Saved = false
		return nil
	}
	resp.Saved = true
	resp.SessionID = meta.ID
	return nil
}

// DownloadCaptions exports a transcript to a user-chosen destination.
func (s *service) DownloadCaptions(req DownloadCaptionsRequest, resp *DownloadCaptionsResponse) error {
	result, err := s.daemon.DownloadCaptions(s.ctx, req.Title, req.Transcript, req.Format, req.Report, req.Dir)
	if err != nil {
		s.log().Error("download captions", logging.Error(err))
		resp.Saved = false
		return nil
	}
	resp.Saved = true
	resp.Path = result.Path
	resp.Format = result.Format
	return nil
}

// SaveOnLeave runs the guarded auto-save for a finished capture session.
func (s *service) SaveOnLeave(req SaveOnLeaveRequest, resp *SaveOnLeaveResponse) error {
	resp.Saved, resp.Reason = s.daemon.SaveOnLeave(s.ctx, req.Title, req.Transcript, req.RecordingStart, req.Report)
	return nil
}

// DisplayCaptions stores the transcript viewer surfaces read.
func (s *service) DisplayCaptions(req DisplayCaptionsRequest, resp *DisplayCaptionsResponse) error {
	s.daemon.DisplayCaptions(req.Transcript)
	resp.Stored = true
	return nil
}

// DisplayedCaptions reads the viewer transcript back.
func (s *service) DisplayedCaptions(_ DisplayedCaptionsRequest, resp *DisplayedCaptionsResponse) error {
	resp.Transcript = s.daemon.DisplayedCaptions()
	return nil
}

// StoreScreenshot appends a frame to a meeting's buffer. Malformed frames
// are rejected as RPC errors; persistence failures are logged and reported
// as stored=false.
func (s *service) StoreScreenshot(req StoreScreenshotRequest, resp *StoreScreenshotResponse) error {
	if strings.TrimSpace(req.MeetingID) == "" {
		return errors.New("meeting_id is required")
	}
	if err := session.ValidateScreenshot(req.Screenshot); err != nil {
		return err
	}
	count, err := s.daemon.StoreScreenshot(s.ctx, req.MeetingID, req.Screenshot)
	if err != nil {
		s.log().Error("store screenshot", logging.Error(err))
		resp.Stored = false
		return nil
	}
	resp.Stored = true
	resp.Count = count
	return nil
}

// SetCaptureState handles capture start/stop transitions.
func (s *service) SetCaptureState(req SetCaptureStateRequest, resp *SetCaptureStateResponse) error {
	s.daemon.SetCaptureState(s.ctx, req.Capturing, req.MeetingID)
	resp.Acknowledged = true
	return nil
}

// ReportError records a capture-source error for diagnostics.
func (s *service) ReportError(req ReportErrorRequest, resp *ReportErrorResponse) error {
	s.daemon.RecordError(req.Message)
	resp.Recorded = true
	return nil
}

// SetAliases replaces the speaker alias map for this capture session.
func (s *service) SetAliases(req SetAliasesRequest, resp *SetAliasesResponse) error {
	s.daemon.SetAliases(req.Aliases)
	resp.Applied = true
	return nil
}

// Sessions lists the archived session index.
func (s *service) Sessions(_ SessionsRequest, resp *SessionsResponse) error {
	sessions, err := s.daemon.Sessions(s.ctx)
	if err != nil {
		return err
	}
	resp.Sessions = make([]SessionSummary, 0, len(sessions))
	for _, meta := range sessions {
		resp.Sessions = append(resp.Sessions, fromMetadata(meta))
	}
	return nil
}

// SessionDescribe fetches one session with its transcript and report.
func (s *service) SessionDescribe(req SessionDescribeRequest, resp *SessionDescribeResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("session id is required")
	}
	meta, err := s.daemon.Session(s.ctx, req.ID)
	if err != nil {
		return err
	}
	transcript, err := s.daemon.SessionTranscript(s.ctx, req.ID)
	if err != nil {
		return err
	}
	report, err := s.daemon.SessionAttendees(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Session = fromMetadata(meta)
	resp.Transcript = transcript
	resp.Report = report
	return nil
}

// SessionDelete removes an archived session.
func (s *service) SessionDelete(req SessionDeleteRequest, resp *SessionDeleteResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("session id is required")
	}
	if err := s.daemon.DeleteSession(s.ctx, req.ID); err != nil {
		return err
	}
	resp.Deleted = true
	s.log().Info("session deleted", logging.String("session_id", req.ID))
	return nil
}

// SessionExport renders an archived session to a file.
func (s *service) SessionExport(req SessionExportRequest, resp *SessionExportResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("session id is required")
	}
	result, err := s.daemon.ExportSession(s.ctx, req.ID, req.Format, req.Dir)
	if err != nil {
		return err
	}
	resp.Saved = true
	resp.Path = result.Path
	resp.Format = result.Format
	return nil
}

// Screenshots lists the buffered frames for a meeting.
func (s *service) Screenshots(req ScreenshotsRequest, resp *ScreenshotsResponse) error {
	if strings.TrimSpace(req.MeetingID) == "" {
		return errors.New("meeting_id is required")
	}
	frames, err := s.daemon.Screenshots(s.ctx, req.MeetingID)
	if err != nil {
		return err
	}
	resp.Screenshots = frames
	return nil
}

// TestNotify sends a test notification through the configured notifier.
func (s *service) TestNotify(_ TestNotifyRequest, resp *TestNotifyResponse) error {
	sent, err := s.daemon.TestNotification(s.ctx)
	if err != nil {
		s.log().Warn("test notification failed", logging.Error(err))
		resp.Message = fmt.Sprintf("test notification failed: %v", err)
		return nil
	}
	resp.Sent = sent
	if !sent {
		resp.Message = "notifications are not configured"
	}
	return nil
}

// Stop shuts the daemon down.
func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Info("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	return nil
}

// Status reports daemon runtime information.
func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.DBPath = status.DBPath
	resp.LockPath = status.LockFilePath
	resp.LastError = status.LastError
	resp.Sessions = status.Stats.Sessions
	resp.Chunks = status.Stats.Chunks
	resp.Screenshots = status.Stats.Screenshots
	resp.PID = os.Getpid()
	return nil
}
