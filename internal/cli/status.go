package cli

import (
	"context"
	"fmt"

	"github.com/luciushq/lucius/internal/protocol"
)

// Represents the 'status' command.
type StatusCmd struct{}

// Executes the status command.
func (c *StatusCmd) Run(ctx context.Context) error {
	reply, err := roundTrip(protocol.CmdStatus, nil)
	if err != nil {
		return err
	}

	status, err := protocol.DecodePayload[protocol.StatusResult](reply)
	if err != nil {
		return err
	}

	fmt.Printf("version: %s\n", status.Version)
	fmt.Printf("pid:     %d\n", status.Pid)
	fmt.Printf("uptime:  %s\n", status.Uptime)
	fmt.Printf("tasks:   %d\n", status.Tasks)
	fmt.Printf("builds:  %d\n", status.Builds)

	return nil
}
