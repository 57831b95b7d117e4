package worker

import "errors"

var (
	ErrInvalidTask        = errors.New("invalid task")
	ErrShell              = errors.New("shell command failed")
	ErrDocker             = errors.New("docker command failed")
	ErrUnsupportedCommand = errors.New("unsupported docker command")
)
