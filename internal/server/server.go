package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/omenix/omenix/internal/control"
	"github.com/omenix/omenix/internal/protocol"
	"github.com/omenix/omenix/internal/ui"
)

const (
	// socket is world writable so unprivileged clients can connect
	socketFileMode = 0o666
	writeTimeout   = 5 * time.Second
	maxRequestSize = 1024
)

// Controller is the part of the control state machine the server operates on.
type Controller interface {
	SetFanMode(mode control.FanMode) error
	SetPerformanceMode(mode control.PerformanceMode) error
	Status() control.Snapshot
}

// Server answers line based requests on a unix socket. Each connection carries
// exactly one request line and one response line.
type Server struct {
	socketPath  string
	controller  Controller
	readTimeout time.Duration

	activeConnections sync.WaitGroup
}

func NewServer(socketPath string, controller Controller, readTimeout time.Duration) *Server {
	return &Server{
		socketPath:  socketPath,
		controller:  controller,
		readTimeout: readTimeout,
	}
}

func (s *Server) SocketPath() string {
	return s.socketPath
}

// Listen replaces a stale socket file and starts listening on the socket path.
func (s *Server) Listen() (net.Listener, error) {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}

	if err := os.Chmod(s.socketPath, socketFileMode); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("setting permissions of %s: %w", s.socketPath, err)
	}
	return listener, nil
}

// ListenAndServe listens on the socket path and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections until ctx is cancelled, then waits for in-flight
// requests to complete. The socket file is removed on return.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	defer func() {
		_ = listener.Close()
		_ = os.Remove(s.socketPath)
	}()

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	ui.Info("Listening for commands on %s", s.socketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			ui.Error("Accepting connection failed: %v", err)
			continue
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(conn)
		}()
	}

	s.activeConnections.Wait()
	ui.Debug("Socket server stopped")
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	reader := bufio.NewReader(io.LimitReader(conn, maxRequestSize))
	line, err := reader.ReadString('\n')
	if err != nil {
		var netErr net.Error
		switch {
		case errors.As(err, &netErr) && netErr.Timeout():
			ui.Warning("Client did not send a command within %s", s.readTimeout)
			s.writeResponse(conn, protocol.FormatError("timed out waiting for command"))
			return
		case errors.Is(err, io.EOF) && len(line) <= 0:
			// connected but sent nothing
			return
		case !errors.Is(err, io.EOF):
			ui.Debug("Reading command failed: %v", err)
			return
		}
	}

	ui.Debug("Received command: %q", line)
	s.writeResponse(conn, s.Handle(line))
}

// Handle parses a request line and returns the response line.
func (s *Server) Handle(line string) string {
	command, err := protocol.ParseCommand(line)
	if err != nil {
		return protocol.FormatError(err.Error())
	}
	return s.Dispatch(command)
}

// Dispatch executes a parsed command against the controller.
func (s *Server) Dispatch(command protocol.Command) string {
	var err error
	switch c := command.(type) {
	case protocol.SetFanMode:
		err = s.controller.SetFanMode(c.Mode)
	case protocol.SetPerformanceMode:
		err = s.controller.SetPerformanceMode(c.Mode)
	case protocol.Status:
		return protocol.FormatStatus(s.controller.Status())
	default:
		err = protocol.ErrUnknownCommand
	}

	if err != nil {
		ui.Warning("Command '%s' failed: %v", command.Line(), err)
		return protocol.FormatError(err.Error())
	}
	return protocol.FormatOK()
}

func (s *Server) writeResponse(conn net.Conn, response string) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := io.WriteString(conn, response); err != nil {
		ui.Debug("Writing response failed: %v", err)
	}
}
