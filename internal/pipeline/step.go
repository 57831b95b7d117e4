package pipeline

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/luciushq/lucius/internal/manifest"
	"github.com/luciushq/lucius/internal/runtime"
)

// Executes a list of steps in order against the stage container.
func executeSteps(ctx context.Context, ctr *runtime.Container, steps []manifest.Step, state *stepState, root string, stages map[string]*runtime.Container) error {
	for i, step := range steps {
		if err := executeStep(ctx, ctr, step, state, root, stages); err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
	}
	return nil
}

// Executes a single step, dispatching to operation execution, group
// recursion, or state mutation depending on the step's fields.
func executeStep(ctx context.Context, ctr *runtime.Container, step manifest.Step, state *stepState, root string, stages map[string]*runtime.Container) error {

	// Group: apply group-level modifiers and recurse.
	if len(step.Steps) > 0 {
		state.apply(step)
		return executeSteps(ctx, ctr, step.Steps, state, root, stages)
	}

	// Operation with optional scoped modifiers.
	if step.Run != "" || step.Copy != "" {
		return executeOperation(ctx, ctr, step, state, root, stages)
	}

	// Standalone modifier(s): persist in state.
	state.apply(step)
	return nil
}

// Executes a run or copy operation with scoped modifier overrides.
//
// Step-level modifiers override the persistent state for this operation
// only. The persistent state is not modified.
func executeOperation(ctx context.Context, ctr *runtime.Container, step manifest.Step, state *stepState, root string, stages map[string]*runtime.Container) error {
	resolved := state.resolve(step)

	if resolved.workdir != "" {
		if err := ctr.MkdirAll(ctx, resolved.workdir); err != nil {
			return err
		}
	}

	switch {
	case step.Run != "":
		slog.Debug("run", "command", step.Run, "shell", resolved.shell)
		result, err := ctr.Exec(ctx, resolved.shell, step.Run, resolved.environ(), resolved.workdir)
		if err != nil {
			return err
		}
		if result.ExitCode != 0 {
			return errors.Wrapf(ErrCommandFailed, "exit code %d: %s", result.ExitCode, result.Stderr)
		}

	case step.Copy != "":
		if err := executeCopy(ctx, ctr, step.Copy, resolved.workdir, root, stages); err != nil {
			return err
		}
	}

	return nil
}
