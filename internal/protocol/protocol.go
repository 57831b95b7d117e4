package protocol

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// A command carried by an envelope.
type Command string

const (
	CmdBuild    Command = "build"    // Run the image build pipeline.
	CmdStatus   Command = "status"   // Query worker status.
	CmdShutdown Command = "shutdown" // Request worker shutdown.
	CmdOK       Command = "ok"       // Successful response.
	CmdError    Command = "error"    // Error response.
)

// Wraps every message exchanged over the control socket.
type Envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Serializes a command and payload into an envelope.
func Encode(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: cmd}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encode payload")
		}
		env.Payload = data
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Wrap(err, "encode envelope")
	}
	return data, nil
}

// Parses an envelope from raw bytes, returning the envelope and its
// undecoded payload.
func Decode(data []byte) (*Envelope, json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, errors.Wrap(err, "decode envelope")
	}
	if env.Command == "" {
		return nil, nil, errors.New("envelope missing command")
	}
	return &env, env.Payload, nil
}

// Decodes a payload into the given request or result type.
func DecodePayload[T any](payload json.RawMessage) (*T, error) {
	var v T
	if len(payload) == 0 {
		return nil, errors.New("missing payload")
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, errors.Wrap(err, "decode payload")
	}
	return &v, nil
}
