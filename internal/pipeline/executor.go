package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/luciushq/lucius/internal/manifest"
	"github.com/luciushq/lucius/internal/paths"
	"github.com/luciushq/lucius/internal/runtime"
)

// Holds shared state for running all stages of a pipeline.
type executor struct {
	rt         *runtime.Runtime     // Container runtime for image and container operations.
	pipeline   *manifest.Pipeline   // Pipeline under execution.
	resource   string               // Resource name, used as a prefix for container IDs.
	output     string               // Output directory for the exported image.
	root       string               // Source tree root for copy sources and base archives.
	platforms  []string             // Target platforms to build for.
	containers []*runtime.Container // All stage containers, destroyed after the run completes.
}

// Creates a new [executor] from the given options.
func newExecutor(rt *runtime.Runtime, opts Options) *executor {
	return &executor{
		rt:        rt,
		pipeline:  opts.Pipeline,
		resource:  opts.Resource,
		output:    opts.Output,
		root:      opts.Root,
		platforms: opts.Platforms,
	}
}

// Runs the pipeline end-to-end against the container runtime.
//
// Each target platform is built independently. Stages run in declaration
// order for each platform. All stage containers are destroyed when the run
// completes, successful or not.
func (e *executor) run(ctx context.Context) (*Result, error) {
	defer e.destroyContainers(ctx)

	for _, platform := range e.platforms {
		if err := e.runPlatform(ctx, platform); err != nil {
			return nil, err
		}
	}

	return &Result{Output: e.output}, nil
}

// Runs all stages of the pipeline for a single platform.
//
// Each platform maintains its own set of named stage containers for
// cross-stage copy lookups. The output is written to a platform-specific
// subdirectory when building for multiple platforms.
func (e *executor) runPlatform(ctx context.Context, platform string) error {
	slog.Info("building platform", "platform", platform)

	output := e.platformOutput(platform)
	if err := os.MkdirAll(output, paths.DefaultDirMode); err != nil {
		return errors.Wrapf(ErrPackaging, "create output directory: %v", err)
	}

	stages := make(map[string]*runtime.Container)

	for i, stage := range e.pipeline.Stages {
		if err := e.runStage(ctx, stage, i, platform, output, stages); err != nil {
			return stageError(stage, fmt.Sprintf("platform %s, stage %s", platform, stageLabel(stage.Name, i)), err)
		}
	}

	return nil
}

// Classifies a stage failure.
//
// Failures in transient (build) stages are compilation failures; failures
// in the final stage, including a missing build artifact or a failed
// export, are packaging failures.
func stageError(stage manifest.Stage, label string, err error) error {
	kind := ErrPackaging
	if stage.Transient {
		kind = ErrCompilation
	}
	return errors.Wrapf(kind, "%s: %v", label, err)
}

// Runs a single stage for a specific platform.
//
// Starts a container from the stage's base archive, executes the stage's
// steps, then stops and exports the final (non-transient) stage to the
// output directory with the pipeline entrypoint.
func (e *executor) runStage(ctx context.Context, stage manifest.Stage, index int, platform, output string, stages map[string]*runtime.Container) error {
	slog.Info(fmt.Sprintf("building stage %s", stageLabel(stage.Name, index)), "platform", platform)

	id := e.containerID(stage.Name, index, platform)
	ctr, err := e.rt.StartContainer(ctx, e.baseArchive(stage), id, platform)
	if err != nil {
		return err
	}

	e.containers = append(e.containers, ctr)
	if stage.Name != "" {
		stages[stage.Name] = ctr
	}

	if err := executeSteps(ctx, ctr, stage.Steps, newStepState(), e.root, stages); err != nil {
		return err
	}

	if !stage.Transient {
		if err := ctr.Stop(ctx); err != nil {
			return err
		}

		if err := ctr.Export(ctx, output, e.pipeline.Entrypoint); err != nil {
			return err
		}
	}

	return nil
}

// Destroys all stage containers.
func (e *executor) destroyContainers(ctx context.Context) {
	for _, ctr := range e.containers {
		ctr.Destroy(ctx)
	}
}

// Resolves a stage's base archive path against the source tree root.
func (e *executor) baseArchive(stage manifest.Stage) string {
	if filepath.IsAbs(stage.From) {
		return stage.From
	}
	return filepath.Join(e.root, stage.From)
}

// Returns a unique container ID for a stage, scoped to this resource and
// platform.
func (e *executor) containerID(name string, index int, platform string) string {
	slug := platformSlug(platform)
	if name != "" {
		return fmt.Sprintf("%s-%s-stage-%s", e.resource, slug, name)
	}
	return fmt.Sprintf("%s-%s-stage-%d", e.resource, slug, index+1)
}

// Returns the output directory for a specific platform.
//
// When building for a single platform, the output directory is left as-is
// to preserve the {output}/image.tar convention. For multi-platform builds,
// each platform gets a subdirectory (e.g., {output}/linux-amd64).
func (e *executor) platformOutput(platform string) string {
	if len(e.platforms) == 1 {
		return e.output
	}
	return filepath.Join(e.output, platformSlug(platform))
}

// Converts a platform string to a filesystem-safe slug.
//
// Replaces slashes with dashes (e.g., "linux/amd64" becomes "linux-amd64").
func platformSlug(platform string) string {
	return strings.ReplaceAll(platform, "/", "-")
}

// Returns a label for a stage, preferring the name when available and
// falling back to the 1-based index.
func stageLabel(name string, index int) string {
	if name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("%d", index+1)
}
