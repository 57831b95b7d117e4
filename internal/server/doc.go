// Package server implements the control socket.
//
// The worker process listens on a Unix domain socket for control commands
// from the CLI. Each connection carries a single newline-delimited JSON
// exchange: build runs the image pipeline, status reports process state,
// and shutdown stops the worker.
package server
