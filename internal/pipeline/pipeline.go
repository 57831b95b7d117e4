package pipeline

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/luciushq/lucius/internal/manifest"
	"github.com/luciushq/lucius/internal/paths"
	"github.com/luciushq/lucius/internal/runtime"
)

// Controls pipeline execution.
type Options struct {
	Pipeline  *manifest.Pipeline // Pipeline to execute.
	Resource  string             // Resource name, used as a prefix for container IDs.
	Output    string             // Directory for the exported image.
	Root      string             // Source tree root, for resolving copy sources and base archives.
	Platforms []string           // Target platforms (e.g., ["linux/amd64"]). Defaults to host.
}

// Returned after successful pipeline execution.
type Result struct {
	Output string // Directory containing the exported image.
}

// Executes a pipeline against the container runtime.
//
// Stages run strictly in declaration order; a stage never starts unless
// every earlier stage succeeded. Transient (build) stages are discarded
// after their artifacts are handed off; the final stage is exported as the
// runtime image to the output directory. Any failure aborts the run and no
// image is produced.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	if len(opts.Platforms) == 0 {
		opts.Platforms = []string{runtime.DefaultPlatform()}
	}

	slog.Info("executing pipeline",
		"resource", opts.Resource,
		"output", opts.Output,
		"stages", len(opts.Pipeline.Stages),
		"platforms", opts.Platforms,
	)

	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, errors.Wrapf(ErrPackaging, "create output directory: %v", err)
	}

	return newExecutor(rt, opts).run(ctx)
}
