package worker

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Kind of work a task requests.
type Type string

const (
	TypeShell  Type = "SHELL"  // Run a shell command on the worker host.
	TypeDocker Type = "DOCKER" // Query the container runtime.
)

// A unit of work popped from a task queue.
//
// Tasks arrive as JSON with an uppercase task_type. Details is
// type-specific and left undecoded until dispatch.
type Task struct {
	ID         string          `json:"id"`
	TargetHost string          `json:"target_host"`
	Type       Type            `json:"task_type"`
	Details    json.RawMessage `json:"details"`
}

// Details payload shared by SHELL tasks and DOCKER tasks.
type commandDetails struct {
	Command string `json:"command"`
}

// Parses and validates a task from its queue payload.
func decodeTask(data []byte) (*Task, error) {
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrapf(ErrInvalidTask, "%v", err)
	}

	if t.ID == "" {
		return nil, errors.Wrap(ErrInvalidTask, "missing id")
	}

	switch t.Type {
	case TypeShell, TypeDocker:
	default:
		return nil, errors.Wrapf(ErrInvalidTask, "unknown task type %q", t.Type)
	}

	return &t, nil
}

// Parses the command field out of a task's details.
func (t *Task) command() (string, error) {
	var d commandDetails
	if len(t.Details) > 0 {
		if err := json.Unmarshal(t.Details, &d); err != nil {
			return "", errors.Wrapf(ErrInvalidTask, "details: %v", err)
		}
	}
	return d.Command, nil
}
