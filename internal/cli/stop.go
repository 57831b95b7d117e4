package cli

import (
	"context"
	"fmt"

	"github.com/luciushq/lucius/internal/protocol"
)

// Represents the 'stop' command.
type StopCmd struct{}

// Executes the stop command.
func (c *StopCmd) Run(ctx context.Context) error {
	if _, err := roundTrip(protocol.CmdShutdown, nil); err != nil {
		return err
	}

	fmt.Println("worker stopped")
	return nil
}
