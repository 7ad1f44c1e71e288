package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/omenix/omenix/internal/control"
	"github.com/omenix/omenix/internal/protocol"
)

const (
	DefaultSocketPath = "/tmp/omenix-daemon.sock"
	DefaultTimeout    = 5 * time.Second

	maxResponseSize = 4096
)

// Client sends single commands to the daemon. Every call opens a new connection.
type Client struct {
	socketPath string
	timeout    time.Duration
}

func NewClient(socketPath string, timeout time.Duration) *Client {
	if len(socketPath) <= 0 {
		socketPath = DefaultSocketPath
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		socketPath: socketPath,
		timeout:    timeout,
	}
}

func (c *Client) SocketPath() string {
	return c.socketPath
}

// Send transmits the command and returns the parsed response line.
// A daemon reported error is returned as *DaemonError.
func (c *Client) Send(ctx context.Context, command protocol.Command) (protocol.Response, error) {
	line, err := c.exchange(ctx, command.Line()+"\n")
	if err != nil {
		return protocol.Response{}, err
	}

	response, err := protocol.ParseResponse(line)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("'%s': %w", command.Line(), err)
	}
	if len(response.Error) > 0 {
		return response, &DaemonError{Command: command.Line(), Reason: response.Error}
	}
	return response, nil
}

func (c *Client) SetFanMode(ctx context.Context, mode control.FanMode) error {
	return c.expectOK(ctx, protocol.SetFanMode{Mode: mode})
}

func (c *Client) SetPerformanceMode(ctx context.Context, mode control.PerformanceMode) error {
	return c.expectOK(ctx, protocol.SetPerformanceMode{Mode: mode})
}

func (c *Client) Status(ctx context.Context) (protocol.StatusReply, error) {
	response, err := c.Send(ctx, protocol.Status{})
	if err != nil {
		return protocol.StatusReply{}, err
	}
	return protocol.ParseStatus(response.Body)
}

// IsDaemonRunning reports whether the daemon answers a status request.
func (c *Client) IsDaemonRunning(ctx context.Context) bool {
	_, err := c.Status(ctx)
	return err == nil
}

func (c *Client) expectOK(ctx context.Context, command protocol.Command) error {
	response, err := c.Send(ctx, command)
	if err != nil {
		return err
	}
	if len(response.Body) > 0 {
		return fmt.Errorf("%w: '%s' answered '%s'", protocol.ErrUnexpectedResponse, command.Line(), response.Body)
	}
	return nil
}

func (c *Client) exchange(ctx context.Context, request string) (string, error) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return "", newConnectivityError(c.socketPath, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)

	if _, err := io.WriteString(conn, request); err != nil {
		return "", newConnectivityError(c.socketPath, fmt.Errorf("writing request: %w", err))
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		_ = unixConn.CloseWrite()
	}

	line, err := bufio.NewReader(io.LimitReader(conn, maxResponseSize)).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", newConnectivityError(c.socketPath, fmt.Errorf("reading response: %w", err))
	}
	return line, nil
}
