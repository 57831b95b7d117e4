package manifest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Describes the image build pipeline.
//
// A pipeline is an ordered list of stages. Transient stages exist only to
// produce intermediate files (the compiled artifact); the single
// non-transient stage is exported as the runtime image.
type Pipeline struct {
	Artifact   string   `yaml:"artifact"`   // Fixed path of the compiled artifact inside the build stage.
	Entrypoint []string `yaml:"entrypoint"` // Entrypoint set on the exported runtime image.
	Stages     []Stage  `yaml:"stages"`
}

// A single pipeline stage, backed by a container created from a base image.
type Stage struct {
	Name      string `yaml:"name"`
	From      string `yaml:"from"`      // Path to the base OCI archive, relative to the pipeline root.
	Transient bool   `yaml:"transient"` // Transient stages are discarded instead of exported.
	Steps     []Step `yaml:"steps"`
}

// A single build step.
//
// A step is either an operation (run or copy), a standalone modifier
// (shell, workdir, env), or a group of nested steps sharing the group's
// modifiers. Copy sources of the form "stage:path" read from a previously
// built stage instead of the host.
type Step struct {
	Run     string            `yaml:"run,omitempty"`
	Copy    string            `yaml:"copy,omitempty"`
	Shell   string            `yaml:"shell,omitempty"`
	Workdir string            `yaml:"workdir,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	Steps   []Step            `yaml:"steps,omitempty"`
}

// Parses a pipeline from YAML and validates it.
//
// Unknown fields are rejected so that typos in manifests fail loudly
// instead of silently dropping steps.
func Parse(r io.Reader) (*Pipeline, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Pipeline
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(ErrManifest, err.Error())
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Reads and parses a pipeline manifest from a file.
func Load(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrManifest, err.Error())
	}
	defer f.Close()

	return Parse(f)
}

// Checks the pipeline's structural invariants.
//
// A valid pipeline has at least one stage, uses unique stage names, declares
// a base archive for every stage, carries at most one operation per step,
// and exports exactly one stage: the last one. Multi-stage pipelines must
// name the artifact and hand it to the final stage via a cross-stage copy,
// so the exported image never sees the build stage's toolchain or sources.
func (p *Pipeline) Validate() error {
	if len(p.Stages) == 0 {
		return errors.Wrap(ErrManifest, "pipeline has no stages")
	}
	if len(p.Entrypoint) == 0 {
		return errors.Wrap(ErrManifest, "pipeline has no entrypoint")
	}

	seen := make(map[string]bool, len(p.Stages))
	for i, stage := range p.Stages {
		if err := p.validateStage(stage, i, seen); err != nil {
			return err
		}
	}

	if len(p.Stages) > 1 {
		return p.validateHandoff()
	}
	return nil
}

// Validates a single stage within the pipeline.
func (p *Pipeline) validateStage(stage Stage, index int, seen map[string]bool) error {
	label := stageLabel(stage.Name, index)

	if stage.From == "" {
		return errors.Wrapf(ErrManifest, "stage %s has no base archive", label)
	}
	if stage.Name != "" {
		if seen[stage.Name] {
			return errors.Wrapf(ErrManifest, "duplicate stage name %q", stage.Name)
		}
		seen[stage.Name] = true
	}

	last := index == len(p.Stages)-1
	if stage.Transient == last {
		if last {
			return errors.Wrapf(ErrManifest, "final stage %s must not be transient", label)
		}
		return errors.Wrapf(ErrManifest, "stage %s must be transient; only the final stage is exported", label)
	}

	return validateSteps(stage.Steps, label)
}

// Validates the steps of a stage, recursing into groups.
func validateSteps(steps []Step, label string) error {
	for i, step := range steps {
		ops := 0
		if step.Run != "" {
			ops++
		}
		if step.Copy != "" {
			ops++
		}
		if len(step.Steps) > 0 {
			ops++
		}
		if ops > 1 {
			return errors.Wrapf(ErrManifest, "stage %s, step %d: run, copy, and steps are mutually exclusive", label, i+1)
		}
		if len(step.Steps) > 0 {
			if err := validateSteps(step.Steps, label); err != nil {
				return err
			}
		}
	}
	return nil
}

// Checks that the final stage receives the artifact from an earlier stage.
func (p *Pipeline) validateHandoff() error {
	if p.Artifact == "" {
		return errors.Wrap(ErrManifest, "multi-stage pipeline has no artifact path")
	}

	final := p.Stages[len(p.Stages)-1]
	if !copiesArtifact(final.Steps, p.Artifact) {
		return errors.Wrapf(ErrManifest, "final stage does not copy artifact %s from an earlier stage", p.Artifact)
	}
	return nil
}

// Reports whether any step copies the artifact from another stage.
func copiesArtifact(steps []Step, artifact string) bool {
	for _, step := range steps {
		if len(step.Steps) > 0 && copiesArtifact(step.Steps, artifact) {
			return true
		}
		if step.Copy == "" {
			continue
		}
		src := strings.Fields(step.Copy)
		if len(src) > 0 && strings.HasSuffix(src[0], ":"+artifact) {
			return true
		}
	}
	return false
}

// Returns a label for a stage, preferring the name when available and
// falling back to the 1-based index.
func stageLabel(name string, index int) string {
	if name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("%d", index+1)
}
