package pipeline

import "errors"

var (

	// A transient (build) stage failed to produce its artifact.
	ErrCompilation = errors.New("compilation failed")

	// The runtime stage failed to assemble or export the image.
	ErrPackaging = errors.New("packaging failed")

	// A run step exited with a non-zero code.
	ErrCommandFailed = errors.New("command failed")

	// A copy step could not transfer its files.
	ErrCopy = errors.New("copy failed")
)
