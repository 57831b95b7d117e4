package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/luciushq/lucius/internal"
	"github.com/luciushq/lucius/internal/manifest"
	"github.com/luciushq/lucius/internal/pipeline"
	"github.com/luciushq/lucius/internal/protocol"
)

// Handles a build command.
//
// The pipeline runs synchronously; the client blocks until the build
// completes or fails. If the client disconnects the build is cancelled.
func (s *Server) handleBuild(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	if s.rt == nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{
			Message: "container runtime not available",
		})
		return
	}

	req, err := protocol.DecodePayload[protocol.BuildRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	p, err := s.loadPipeline(req.Manifest)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	opts := pipeline.Options{
		Pipeline:  p,
		Resource:  internal.Name,
		Output:    req.Output,
		Root:      req.Root,
		Platforms: req.Platforms,
	}
	if opts.Output == "" {
		opts.Output = s.cfg.Output
	}
	if opts.Root == "" {
		opts.Root = s.cfg.Root
	}

	result, err := pipeline.Run(ctx, s.rt, opts)
	if err != nil {
		slog.Error("build failed", "error", err)
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()

	s.respond(conn, protocol.CmdOK, &protocol.BuildResult{Output: result.Output})
}

// Resolves the pipeline for a build request. An explicit manifest path in
// the request wins over the configured default; with neither, the built-in
// pipeline is used.
func (s *Server) loadPipeline(path string) (*manifest.Pipeline, error) {
	if path == "" {
		path = s.cfg.Manifest
	}
	if path == "" {
		return manifest.Default(), nil
	}
	return manifest.Load(path)
}

// Handles a status command.
func (s *Server) handleStatus(conn net.Conn) {
	s.mu.Lock()
	builds := s.builds
	s.mu.Unlock()

	var tasks uint64
	if s.wrk != nil {
		tasks = s.wrk.Processed()
	}

	s.respond(conn, protocol.CmdOK, &protocol.StatusResult{
		Running: true,
		Version: internal.VersionString(),
		Pid:     os.Getpid(),
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
		Tasks:   tasks,
		Builds:  builds,
	})
}

// Handles a shutdown command.
//
// The response is written before the listener closes so the client sees
// the acknowledgement.
func (s *Server) handleShutdown(conn net.Conn) {
	s.respond(conn, protocol.CmdOK, nil)
	s.Stop()
}
