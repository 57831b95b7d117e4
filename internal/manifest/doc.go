// Package manifest defines the declarative pipeline description.
//
// A pipeline manifest is a YAML document listing the stages that produce
// the worker's runtime image: transient build stages that compile the
// source tree, and a single final stage that receives the compiled
// artifact and is exported as the image. The step vocabulary (run, copy,
// shell, workdir, env, nested groups) mirrors what the pipeline package
// executes.
//
// [Default] returns the canonical two-stage worker pipeline used when no
// manifest file is given.
package manifest
