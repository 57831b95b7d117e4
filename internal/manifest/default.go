package manifest

import (
	"path/filepath"

	"github.com/luciushq/lucius/internal/paths"
)

// Fixed path of the compiled worker binary inside the build stage.
const DefaultArtifact = "/out/lucius-mcp-worker"

// Path the artifact is installed to in the runtime image.
const installPath = "/usr/local/bin/lucius-mcp-worker"

// Returns the built-in two-stage pipeline for the worker binary.
//
// The build stage compiles the source tree with release settings and is
// discarded after the artifact is extracted. The runtime stage starts from
// a minimal base, receives only the compiled artifact, and is exported with
// the worker as its entrypoint. Base image tarballs are read from the
// shared images directory.
func Default() *Pipeline {
	return &Pipeline{
		Artifact:   DefaultArtifact,
		Entrypoint: []string{installPath},
		Stages: []Stage{
			{
				Name:      "build",
				From:      filepath.Join(paths.Images(), "golang.tar"),
				Transient: true,
				Steps: []Step{
					{Workdir: "/src"},
					{Env: map[string]string{"CGO_ENABLED": "0", "GOFLAGS": "-trimpath"}},
					{Copy: ". /src"},
					{Run: `go build -ldflags="-s -w" -o ` + DefaultArtifact + " ./cmd/lucius-mcp-worker"},
				},
			},
			{
				Name: "runtime",
				From: filepath.Join(paths.Images(), "alpine.tar"),
				Steps: []Step{
					{Copy: "build:" + DefaultArtifact + " " + installPath},
				},
			},
		},
	}
}
