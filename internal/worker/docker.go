package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// Command names accepted by DOCKER tasks.
const cmdListContainers = "list_containers"

// Executes a DOCKER task.
//
// Container queries are answered from the containerd runtime rather than
// by shelling out to a docker CLI. list_containers returns one JSON object
// per line, each describing a container's ID, image, and status.
func (w *Worker) executeDocker(ctx context.Context, task *Task) (string, error) {
	command, err := task.command()
	if err != nil {
		return "", err
	}

	switch command {
	case cmdListContainers:
		return w.listContainers(ctx, task)
	default:
		return "", errors.Wrapf(ErrUnsupportedCommand, "%q", command)
	}
}

// Answers a list_containers command.
func (w *Worker) listContainers(ctx context.Context, task *Task) (string, error) {
	if w.containers == nil {
		return "", errors.Wrap(ErrDocker, "container runtime not available")
	}

	slog.Debug("listing containers", "task", task.ID)

	infos, err := w.containers.ListContainers(ctx)
	if err != nil {
		return "", errors.Wrapf(ErrDocker, "%v", err)
	}

	var b strings.Builder
	for _, info := range infos {
		line, err := json.Marshal(info)
		if err != nil {
			return "", errors.Wrapf(ErrDocker, "%v", err)
		}
		b.Write(line)
		b.WriteByte('\n')
	}

	return b.String(), nil
}
