package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/bsptile/internal/runtimepath"
)

// Client talks to the daemon over its unix socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates an IPC client for the standard socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// GetStatus retrieves daemon status.
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetWindows retrieves the managed windows in layout order.
func (c *Client) GetWindows() (*WindowsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetWindows})
	if err != nil {
		return nil, err
	}

	var windows WindowsData
	if err := json.Unmarshal(resp.Data, &windows); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return &windows, nil
}

// FocusNext asks the daemon to focus the next window and returns the ID of
// the window that was activated.
func (c *Client) FocusNext() (uint32, error) {
	return c.focus(CommandFocusNext)
}

// FocusPrev asks the daemon to focus the previous window and returns the ID
// of the window that was activated.
func (c *Client) FocusPrev() (uint32, error) {
	return c.focus(CommandFocusPrev)
}

func (c *Client) focus(cmd CommandType) (uint32, error) {
	resp, err := c.sendRequest(&Request{Command: cmd})
	if err != nil {
		return 0, err
	}

	var data FocusData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to parse focus data: %w", err)
	}
	return data.Activated, nil
}

// Retile asks the daemon for an immediate full layout pass.
func (c *Client) Retile() error {
	_, err := c.sendRequest(&Request{Command: CommandRetile})
	return err
}

// Reload asks the daemon to reload its configuration from disk.
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}
