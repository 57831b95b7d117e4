package protocol

// Request payload for [CmdBuild].
//
// Manifest is the path to the pipeline manifest; empty means the built-in
// two-stage worker pipeline. Output is the directory for the exported image.
type BuildRequest struct {
	Manifest  string   `json:"manifest,omitempty"`
	Output    string   `json:"output"`
	Root      string   `json:"root"`
	Platforms []string `json:"platforms,omitempty"`
}

// Result payload for a successful [CmdBuild].
type BuildResult struct {
	Output string `json:"output"`
}

// Result payload for [CmdStatus].
type StatusResult struct {
	Running bool   `json:"running"`
	Version string `json:"version"`
	Pid     int    `json:"pid"`
	Uptime  string `json:"uptime"`
	Tasks   uint64 `json:"tasks"`  // Queue tasks processed since start.
	Builds  int    `json:"builds"` // Build commands processed since start.
}

// Result payload for [CmdError].
type ErrorResult struct {
	Message string `json:"message"`
}
