package runtime

import (
	"context"

	"github.com/containerd/errdefs"
	"github.com/pkg/errors"
)

// Summary of a container known to the runtime's namespace.
type ContainerInfo struct {
	ID     string `json:"id"`
	Image  string `json:"image"`
	Status string `json:"status"`
}

// Lists all containers in the runtime's namespace.
//
// Containers without a running task are reported with status "stopped";
// for the rest the task status string is used verbatim (e.g. "RUNNING").
func (rt *Runtime) ListContainers(ctx context.Context) ([]ContainerInfo, error) {
	ctrs, err := rt.client.Containers(ctx)
	if err != nil {
		return nil, errors.Wrapf(ErrRuntime, "list containers: %v", err)
	}

	infos := make([]ContainerInfo, 0, len(ctrs))
	for _, ctr := range ctrs {
		info, err := ctr.Info(ctx)
		if err != nil {
			return nil, errors.Wrapf(ErrRuntime, "container info %s: %v", ctr.ID(), err)
		}

		status := "stopped"
		if task, err := ctr.Task(ctx, nil); err == nil {
			if st, err := task.Status(ctx); err == nil {
				status = string(st.Status)
			}
		} else if !errdefs.IsNotFound(err) {
			return nil, errors.Wrapf(ErrRuntime, "container task %s: %v", ctr.ID(), err)
		}

		infos = append(infos, ContainerInfo{
			ID:     ctr.ID(),
			Image:  info.Image,
			Status: status,
		})
	}

	return infos, nil
}
