// Package cli implements the command-line interface.
//
// The start command runs the worker process; build runs the image pipeline
// once without a worker; status and stop talk to a running worker over its
// control socket.
package cli
