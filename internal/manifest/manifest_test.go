package manifest

import (
	"errors"
	"strings"
	"testing"
)

const validManifest = `
artifact: /out/worker
entrypoint: ["/usr/local/bin/worker"]
stages:
  - name: build
    from: images/golang.tar
    transient: true
    steps:
      - workdir: /src
      - copy: ". /src"
      - run: go build -o /out/worker .
  - name: runtime
    from: images/alpine.tar
    steps:
      - copy: "build:/out/worker /usr/local/bin/worker"
`

func TestParse(t *testing.T) {
	p, err := Parse(strings.NewReader(validManifest))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Artifact != "/out/worker" {
		t.Errorf("artifact = %q, want /out/worker", p.Artifact)
	}
	if len(p.Stages) != 2 {
		t.Fatalf("len(stages) = %d, want 2", len(p.Stages))
	}
	if !p.Stages[0].Transient {
		t.Error("build stage should be transient")
	}
	if p.Stages[1].Transient {
		t.Error("runtime stage should not be transient")
	}
	if len(p.Stages[0].Steps) != 3 {
		t.Fatalf("len(build steps) = %d, want 3", len(p.Stages[0].Steps))
	}
}

func TestParseUnknownField(t *testing.T) {
	input := strings.Replace(validManifest, "artifact:", "artefact:", 1)
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pipeline)
	}{
		{
			name:   "no stages",
			mutate: func(p *Pipeline) { p.Stages = nil },
		},
		{
			name:   "no entrypoint",
			mutate: func(p *Pipeline) { p.Entrypoint = nil },
		},
		{
			name:   "stage without base archive",
			mutate: func(p *Pipeline) { p.Stages[0].From = "" },
		},
		{
			name: "duplicate stage names",
			mutate: func(p *Pipeline) {
				p.Stages[1].Name = p.Stages[0].Name
			},
		},
		{
			name:   "final stage transient",
			mutate: func(p *Pipeline) { p.Stages[1].Transient = true },
		},
		{
			name:   "non-final stage not transient",
			mutate: func(p *Pipeline) { p.Stages[0].Transient = false },
		},
		{
			name:   "multi-stage without artifact",
			mutate: func(p *Pipeline) { p.Artifact = "" },
		},
		{
			name: "final stage misses artifact handoff",
			mutate: func(p *Pipeline) {
				p.Stages[1].Steps = []Step{{Run: "true"}}
			},
		},
		{
			name: "step with run and copy",
			mutate: func(p *Pipeline) {
				p.Stages[0].Steps[1] = Step{Run: "true", Copy: ". /src"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(strings.NewReader(validManifest))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			tt.mutate(p)

			err = p.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrManifest) {
				t.Fatalf("error %v is not ErrManifest", err)
			}
		})
	}
}

func TestValidateSingleStage(t *testing.T) {
	p := &Pipeline{
		Entrypoint: []string{"/bin/app"},
		Stages: []Stage{
			{Name: "only", From: "images/base.tar"},
		},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCopiesArtifactInGroup(t *testing.T) {
	steps := []Step{
		{Workdir: "/app"},
		{Steps: []Step{
			{Copy: "build:/out/worker bin/worker"},
		}},
	}
	if !copiesArtifact(steps, "/out/worker") {
		t.Fatal("expected artifact copy to be found inside group")
	}
	if copiesArtifact(steps, "/out/other") {
		t.Fatal("unexpected match for unrelated artifact")
	}
}

func TestDefault(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default pipeline invalid: %v", err)
	}
	if len(p.Stages) != 2 {
		t.Fatalf("len(stages) = %d, want 2", len(p.Stages))
	}
	if !p.Stages[0].Transient || p.Stages[1].Transient {
		t.Fatal("default pipeline must be transient build + exported runtime")
	}
	if p.Artifact != DefaultArtifact {
		t.Fatalf("artifact = %q, want %q", p.Artifact, DefaultArtifact)
	}
}

func TestStageLabel(t *testing.T) {
	if got := stageLabel("build", 0); got != `"build"` {
		t.Errorf("stageLabel(build, 0) = %q", got)
	}
	if got := stageLabel("", 1); got != "2" {
		t.Errorf("stageLabel(\"\", 1) = %q, want 2", got)
	}
}
