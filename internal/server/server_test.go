package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/omenix/omenix/internal/control"
	"github.com/omenix/omenix/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHardware struct {
	mu        sync.Mutex
	fanWrites []int
	profiles  []string
	fanErr    error
}

func (h *mockHardware) WriteFanState(code int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fanErr != nil {
		return h.fanErr
	}
	h.fanWrites = append(h.fanWrites, code)
	return nil
}

func (h *mockHardware) WritePerformanceState(profile string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.profiles = append(h.profiles, profile)
	return nil
}

func (h *mockHardware) lastFanWrite() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fanWrites[len(h.fanWrites)-1]
}

func (h *mockHardware) fanWriteCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.fanWrites)
}

func newController(hardware *mockHardware) *control.Controller {
	return control.NewController(control.Settings{
		TempThresholdHigh:        75,
		TempThresholdLow:         70,
		ConsecutiveHighTempLimit: 3,
		ConsecutiveLowTempLimit:  3,
		MaxFanCode:               0,
		BiosFanCode:              2,
		InitialFanMode:           control.FanModeBios,
		InitialPerformanceMode:   control.PerformanceModeBalanced,
	}, hardware, util.RealClock{})
}

func socketPath(t *testing.T) string {
	// unix socket paths are limited in length, t.TempDir() can be too long
	dir, err := os.MkdirTemp("", "omenix")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "daemon.sock")
}

func startServer(t *testing.T, controller Controller, readTimeout time.Duration) *Server {
	server := NewServer(socketPath(t), controller, readTimeout)
	listener, err := server.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, listener)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	})
	return server
}

func send(t *testing.T, server *Server, request string) string {
	conn, err := net.Dial("unix", server.SocketPath())
	require.NoError(t, err)
	defer conn.Close()

	_, err = io.WriteString(conn, request)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	response, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	return response
}

func TestServer_SetMax(t *testing.T) {
	// GIVEN
	hardware := &mockHardware{}
	controller := newController(hardware)
	server := startServer(t, controller, time.Second)

	// WHEN
	response := send(t, server, "set max\n")

	// THEN
	assert.Equal(t, "ok\n", response)
	assert.Equal(t, control.FanModeMax, controller.Status().FanMode)
	assert.Equal(t, 0, hardware.lastFanWrite())
}

func TestServer_StatusAfterSetMax(t *testing.T) {
	// GIVEN
	hardware := &mockHardware{}
	controller := newController(hardware)
	server := startServer(t, controller, time.Second)
	require.NoError(t, controller.Sample(45000))
	require.Equal(t, "ok\n", send(t, server, "set max\n"))

	// WHEN
	response := send(t, server, "status\n")

	// THEN
	assert.Equal(t, "max balanced 45\n", response)
}

func TestServer_StatusWithoutSample(t *testing.T) {
	// GIVEN
	server := startServer(t, newController(&mockHardware{}), time.Second)

	// WHEN
	response := send(t, server, "status\n")

	// THEN
	assert.Equal(t, "bios balanced unknown\n", response)
}

func TestServer_UnknownCommand(t *testing.T) {
	// GIVEN
	hardware := &mockHardware{}
	controller := newController(hardware)
	server := startServer(t, controller, time.Second)
	before := controller.Status()

	// WHEN
	response := send(t, server, "bogus\n")

	// THEN
	assert.Equal(t, "error: unknown command\n", response)
	assert.Equal(t, before, controller.Status())
	assert.Equal(t, 0, hardware.fanWriteCount())
}

func TestServer_SetPerformance(t *testing.T) {
	// GIVEN
	hardware := &mockHardware{}
	controller := newController(hardware)
	server := startServer(t, controller, time.Second)

	// WHEN
	response := send(t, server, "set_performance performance\n")

	// THEN
	assert.Equal(t, "ok\n", response)
	assert.Equal(t, []string{"performance"}, hardware.profiles)
	assert.Equal(t, "bios performance unknown\n", send(t, server, "status\n"))
}

func TestServer_FailedWriteIsReported(t *testing.T) {
	// GIVEN
	hardware := &mockHardware{fanErr: errors.New("device or resource busy")}
	controller := newController(hardware)
	server := startServer(t, controller, time.Second)

	// WHEN
	response := send(t, server, "set max\n")

	// THEN
	assert.Equal(t, "error: failed to write fan state 0: device or resource busy\n", response)
	assert.Equal(t, control.FanModeMax, controller.Status().FanMode)
}

func TestServer_CommandWithoutNewline(t *testing.T) {
	// GIVEN
	server := startServer(t, newController(&mockHardware{}), time.Second)
	conn, err := net.Dial("unix", server.SocketPath())
	require.NoError(t, err)
	defer conn.Close()

	// WHEN
	_, err = io.WriteString(conn, "set auto")
	require.NoError(t, err)
	require.NoError(t, conn.(*net.UnixConn).CloseWrite())
	response, err := bufio.NewReader(conn).ReadString('\n')

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "ok\n", response)
}

func TestServer_SlowClientTimesOut(t *testing.T) {
	// GIVEN
	controller := newController(&mockHardware{})
	server := startServer(t, controller, 100*time.Millisecond)
	conn, err := net.Dial("unix", server.SocketPath())
	require.NoError(t, err)
	defer conn.Close()

	// WHEN
	_, err = io.WriteString(conn, "set m")
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	response, err := bufio.NewReader(conn).ReadString('\n')

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "error: timed out waiting for command\n", response)
	assert.Equal(t, control.FanModeBios, controller.Status().FanMode)

	// the server keeps serving other clients
	assert.Equal(t, "bios balanced unknown\n", send(t, server, "status\n"))
}

func TestServer_HysteresisScenario(t *testing.T) {
	// GIVEN
	hardware := &mockHardware{}
	controller := newController(hardware)
	server := startServer(t, controller, time.Second)
	require.Equal(t, "ok\n", send(t, server, "set auto\n"))
	writes := hardware.fanWriteCount()

	// WHEN
	for _, temp := range []int{80, 80} {
		require.NoError(t, controller.Sample(temp*1000))
	}

	// THEN
	assert.Equal(t, control.HardwareStateBios, controller.Status().HardwareState)
	assert.Equal(t, writes, hardware.fanWriteCount())

	// WHEN
	require.NoError(t, controller.Sample(80000))

	// THEN
	assert.Equal(t, control.HardwareStateMax, controller.Status().HardwareState)
	assert.Equal(t, 0, hardware.lastFanWrite())
	assert.Equal(t, "auto balanced 80\n", send(t, server, "status\n"))

	// WHEN
	for _, temp := range []int{70, 70} {
		require.NoError(t, controller.Sample(temp*1000))
	}

	// THEN
	assert.Equal(t, control.HardwareStateMax, controller.Status().HardwareState)

	// WHEN
	require.NoError(t, controller.Sample(70000))

	// THEN
	assert.Equal(t, control.HardwareStateBios, controller.Status().HardwareState)
	assert.Equal(t, 2, hardware.lastFanWrite())
}

func TestServer_ConcurrentClients(t *testing.T) {
	// GIVEN
	controller := newController(&mockHardware{})
	server := startServer(t, controller, time.Second)

	// WHEN
	var wg sync.WaitGroup
	responses := make(chan string, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			request := "status\n"
			if i%2 == 0 {
				request = "set max\n"
			}
			responses <- send(t, server, request)
		}(i)
	}
	wg.Wait()
	close(responses)

	// THEN
	for response := range responses {
		assert.Contains(t, []string{"ok\n", "max balanced unknown\n", "bios balanced unknown\n"}, response)
	}
	assert.Equal(t, control.FanModeMax, controller.Status().FanMode)
}

func TestServer_RemovesStaleSocketAndCleansUp(t *testing.T) {
	// GIVEN
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	server := NewServer(path, newController(&mockHardware{}), time.Second)

	// WHEN
	listener, err := server.Listen()
	require.NoError(t, err)

	// THEN
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSocket, info.Mode()&os.ModeSocket)
	assert.Equal(t, os.FileMode(0o666), info.Mode().Perm())

	// WHEN
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = server.Serve(ctx, listener)

	// THEN
	assert.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestServer_Handle(t *testing.T) {
	// GIVEN
	server := NewServer("unused", newController(&mockHardware{}), time.Second)

	// THEN
	assert.Equal(t, "ok\n", server.Handle("set bios\n"))
	assert.Equal(t, "error: unknown command\n", server.Handle("set BIOS\n"))
	assert.Equal(t, "bios balanced unknown\n", server.Handle("status\n"))
}
