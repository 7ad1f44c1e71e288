package cmd

import (
	"context"
	"errors"

	"github.com/omenix/omenix/cmd/global"
	"github.com/omenix/omenix/internal/client"
	"github.com/omenix/omenix/internal/ui"
	"github.com/spf13/cobra"
)

func newClient() *client.Client {
	return client.NewClient(global.SocketPath, client.DefaultTimeout)
}

// runClientCommand executes fn against the daemon and turns connection
// problems into a helpful message.
func runClientCommand(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) error) error {
	setupUi()
	c := newClient()
	err := fn(cmd.Context(), c)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrDaemonNotRunning):
		ui.Error("The omenix daemon does not seem to be running (socket: %s)", c.SocketPath())
	case errors.Is(err, client.ErrPermissionDenied):
		ui.Error("Not allowed to connect to %s, check the permissions of the socket", c.SocketPath())
	}
	return err
}
