package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/luciushq/lucius/internal/config"
	"github.com/luciushq/lucius/internal/runtime"
	"github.com/luciushq/lucius/internal/server"
	"github.com/luciushq/lucius/internal/worker"
)

// Represents the 'start' command.
type StartCmd struct{}

// Executes the start command.
//
// Connects to Redis and containerd, starts the task listener and the
// control socket, and blocks until the context is cancelled (e.g. via
// SIGINT or SIGTERM) or a shutdown command arrives on the socket.
func (c *StartCmd) Run(ctx context.Context, cfg *config.Config) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := ping(ctx, rdb); err != nil {
		return err
	}
	slog.Info("connected to redis", "addr", cfg.Redis.Addr())

	// A missing container runtime degrades DOCKER tasks and builds but
	// does not stop the worker from serving SHELL tasks.
	rt, err := runtime.New(cfg.Runtime.Address, cfg.Runtime.Namespace)
	if err != nil {
		slog.Warn("container runtime unavailable", "error", err)
		rt = nil
	}

	var lister worker.ContainerLister
	if rt != nil {
		defer rt.Close()
		lister = rt
	}

	wrk := worker.New(rdb, lister, workerConfig(cfg))

	srv := server.New(server.Config{
		SocketPath: RootCmd.Socket,
		Manifest:   cfg.Pipeline.Manifest,
		Output:     cfg.Pipeline.Output,
		Root:       cfg.Pipeline.Root,
	}, rt, wrk)

	if err := srv.Start(); err != nil {
		return err
	}

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()

	done := make(chan error, 1)
	go func() {
		done <- wrk.Run(workerCtx)
	}()

	slog.Info("worker is running")

	select {
	case <-ctx.Done():
	case <-srv.Done():
	}

	slog.Info("shutting down")

	stopWorker()
	<-done

	return srv.Stop()
}

// Verifies the Redis connection before the listener starts.
func ping(ctx context.Context, rdb *redis.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return errors.Wrap(err, "redis ping")
	}
	return nil
}

// Maps file configuration onto the worker config, converting second counts
// to durations.
func workerConfig(cfg *config.Config) worker.Config {
	return worker.Config{
		Queues:       cfg.Worker.Queues,
		ResultTTL:    time.Duration(cfg.Worker.ResultTTL) * time.Second,
		RetryBackoff: time.Duration(cfg.Worker.RetryBackoff) * time.Second,
		ShellTimeout: time.Duration(cfg.Worker.ShellTimeout) * time.Second,
		Shell:        cfg.Worker.Shell,
	}
}
