package cli

import (
	"bufio"
	"encoding/json"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/luciushq/lucius/internal/paths"
	"github.com/luciushq/lucius/internal/protocol"
)

// How long the CLI waits for a connection to the control socket.
const dialTimeout = 5 * time.Second

// Sends a single command to a running worker and returns its reply.
//
// The control protocol is one newline-delimited JSON exchange per
// connection. An error reply from the worker is surfaced as an error.
func roundTrip(cmd protocol.Command, payload any) (json.RawMessage, error) {
	socketPath := RootCmd.Socket
	if socketPath == "" {
		socketPath = paths.Socket()
	}

	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, errors.Wrapf(err, "worker not reachable at %s", socketPath)
	}
	defer conn.Close()

	data, err := protocol.Encode(cmd, payload)
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')

	if _, err := conn.Write(data); err != nil {
		return nil, errors.Wrap(err, "write command")
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, errors.Wrap(err, "read reply")
	}

	env, reply, err := protocol.Decode(line)
	if err != nil {
		return nil, err
	}

	if env.Command == protocol.CmdError {
		res, err := protocol.DecodePayload[protocol.ErrorResult](reply)
		if err != nil {
			return nil, err
		}
		return nil, errors.New(res.Message)
	}

	return reply, nil
}
