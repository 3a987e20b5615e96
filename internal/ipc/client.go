package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// SaveSessionHistory archives a completed session.
func (c *Client) SaveSessionHistory(req SaveSessionHistoryRequest) (*SaveSessionHistoryResponse, error) {
	var resp SaveSessionHistoryResponse
	if err := c.client.Call("Minutes.SaveSessionHistory", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadCaptions exports a transcript on user request.
func (c *Client) DownloadCaptions(req DownloadCaptionsRequest) (*DownloadCaptionsResponse, error) {
	var resp DownloadCaptionsResponse
	if err := c.client.Call("Minutes.DownloadCaptions", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveOnLeave runs the guarded auto-save.
func (c *Client) SaveOnLeave(req SaveOnLeaveRequest) (*SaveOnLeaveResponse, error) {
	var resp SaveOnLeaveResponse
	if err := c.client.Call("Minutes.SaveOnLeave", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DisplayCaptions stores the viewer transcript.
func (c *Client) DisplayCaptions(req DisplayCaptionsRequest) (*DisplayCaptionsResponse, error) {
	var resp DisplayCaptionsResponse
	if err := c.client.Call("Minutes.DisplayCaptions", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DisplayedCaptions reads the viewer transcript back.
func (c *Client) DisplayedCaptions() (*DisplayedCaptionsResponse, error) {
	var resp DisplayedCaptionsResponse
	if err := c.client.Call("Minutes.DisplayedCaptions", DisplayedCaptionsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StoreScreenshot appends a frame to a meeting's buffer.
func (c *Client) StoreScreenshot(req StoreScreenshotRequest) (*StoreScreenshotResponse, error) {
	var resp StoreScreenshotResponse
	if err := c.client.Call("Minutes.StoreScreenshot", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetCaptureState signals capture start/stop.
func (c *Client) SetCaptureState(req SetCaptureStateRequest) (*SetCaptureStateResponse, error) {
	var resp SetCaptureStateResponse
	if err := c.client.Call("Minutes.SetCaptureState", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReportError records a capture-source error.
func (c *Client) ReportError(req ReportErrorRequest) (*ReportErrorResponse, error) {
	var resp ReportErrorResponse
	if err := c.client.Call("Minutes.ReportError", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetAliases replaces the speaker alias map.
func (c *Client) SetAliases(req SetAliasesRequest) (*SetAliasesResponse, error) {
	var resp SetAliasesResponse
	if err := c.client.Call("Minutes.SetAliases", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sessions lists the archived session index.
func (c *Client) Sessions() (*SessionsResponse, error) {
	var resp SessionsResponse
	if err := c.client.Call("Minutes.Sessions", SessionsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionDescribe fetches one session with its transcript.
func (c *Client) SessionDescribe(req SessionDescribeRequest) (*SessionDescribeResponse, error) {
	var resp SessionDescribeResponse
	if err := c.client.Call("Minutes.SessionDescribe", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionDelete removes an archived session.
func (c *Client) SessionDelete(req SessionDeleteRequest) (*SessionDeleteResponse, error) {
	var resp SessionDeleteResponse
	if err := c.client.Call("Minutes.SessionDelete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionExport renders an archived session to a file.
func (c *Client) SessionExport(req SessionExportRequest) (*SessionExportResponse, error) {
	var resp SessionExportResponse
	if err := c.client.Call("Minutes.SessionExport", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Screenshots lists the buffered frames for a meeting.
func (c *Client) Screenshots(req ScreenshotsRequest) (*ScreenshotsResponse, error) {
	var resp ScreenshotsResponse
	if err := c.client.Call("Minutes.Screenshots", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification asks the daemon to send a test notification.
func (c *Client) TestNotification() (*TestNotifyResponse, error) {
	var resp TestNotifyResponse
	if err := c.client.Call("Minutes.TestNotify", TestNotifyRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop asks the daemon process to shut down.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Minutes.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Minutes.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
