package cli

import (
	"context"
	"log/slog"

	"github.com/luciushq/lucius/internal"
	"github.com/luciushq/lucius/internal/config"
	"github.com/luciushq/lucius/internal/manifest"
	"github.com/luciushq/lucius/internal/pipeline"
	"github.com/luciushq/lucius/internal/runtime"
)

// Represents the 'build' command.
type BuildCmd struct {
	Manifest  string   `short:"m" help:"Path to a pipeline manifest." placeholder:"PATH"`
	Output    string   `short:"o" help:"Directory for the exported image." placeholder:"DIR"`
	Root      string   `short:"r" help:"Source tree root." placeholder:"DIR"`
	Platforms []string `short:"p" help:"Target platforms (e.g. linux/amd64)." placeholder:"PLATFORM"`
}

// Executes the build command.
//
// Runs the image pipeline directly against containerd without going
// through a running worker.
func (c *BuildCmd) Run(ctx context.Context, cfg *config.Config) error {
	p, err := c.loadPipeline(cfg)
	if err != nil {
		return err
	}

	rt, err := runtime.New(cfg.Runtime.Address, cfg.Runtime.Namespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := pipeline.Options{
		Pipeline:  p,
		Resource:  internal.Name,
		Output:    c.Output,
		Root:      c.Root,
		Platforms: c.Platforms,
	}
	if opts.Output == "" {
		opts.Output = cfg.Pipeline.Output
	}
	if opts.Root == "" {
		opts.Root = cfg.Pipeline.Root
	}

	result, err := pipeline.Run(ctx, rt, opts)
	if err != nil {
		return err
	}

	slog.Info("build complete", "output", result.Output)
	return nil
}

// Resolves the pipeline manifest for the build. A flag wins over the
// configuration file; with neither, the built-in pipeline is used.
func (c *BuildCmd) loadPipeline(cfg *config.Config) (*manifest.Pipeline, error) {
	path := c.Manifest
	if path == "" {
		path = cfg.Pipeline.Manifest
	}
	if path == "" {
		return manifest.Default(), nil
	}
	return manifest.Load(path)
}
