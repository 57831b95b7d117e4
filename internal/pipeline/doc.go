// Package pipeline executes image build pipelines against the container
// runtime.
//
// A pipeline is an ordered sequence of stages, each backed by a container
// created from a base OCI archive. The executor starts a container for
// each stage, dispatches its steps (shell commands, file copies, and
// cross-stage artifact transfers), and exports the final stage as the
// runtime image. Transient stages, including their toolchains and source
// trees, never reach the exported image; only what a cross-stage copy
// hands over does.
//
// Failures are classified by stage: an error in a transient stage is a
// compilation failure, an error in the final stage is a packaging failure.
// Both abort the run with no image produced; stages never retry.
//
// Example usage:
//
//	result, err := pipeline.Run(ctx, rt, pipeline.Options{
//	    Pipeline: manifest.Default(),
//	    Resource: "lucius",
//	    Output:   "dist",
//	    Root:     ".",
//	})
//	if err != nil {
//	    return err
//	}
package pipeline
