package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luciushq/lucius/internal/runtime"
)

// Default queues the worker listens on.
var DefaultQueues = []string{"mcp::tasks::shell", "mcp::tasks::docker"}

const (

	// How long task results stay readable in Redis.
	DefaultResultTTL = time.Hour

	// Pause after a Redis error before the listener resumes.
	DefaultRetryBackoff = 5 * time.Second

	// Upper bound on a single shell task's execution time.
	DefaultShellTimeout = time.Minute

	// Shell used for SHELL tasks.
	DefaultShell = "/bin/sh"
)

// Controls worker behavior.
type Config struct {
	Queues       []string      // Task queues, popped in priority order. Empty uses [DefaultQueues].
	ResultTTL    time.Duration // TTL for stored results. Zero uses [DefaultResultTTL].
	RetryBackoff time.Duration // Backoff after Redis errors. Zero uses [DefaultRetryBackoff].
	ShellTimeout time.Duration // Timeout per shell task. Zero uses [DefaultShellTimeout].
	Shell        string        // Shell binary for SHELL tasks. Empty uses [DefaultShell].
}

// Lists containers for DOCKER tasks.
//
// Satisfied by [runtime.Runtime]; tests substitute a fake.
type ContainerLister interface {
	ListContainers(ctx context.Context) ([]runtime.ContainerInfo, error)
}

// Consumes tasks from Redis queues and executes them.
type Worker struct {
	rdb        *redis.Client
	containers ContainerLister
	cfg        Config
	processed  atomic.Uint64
}

// Creates a worker reading from the given Redis client.
//
// Zero-value config fields are filled with defaults.
func New(rdb *redis.Client, containers ContainerLister, cfg Config) *Worker {
	if len(cfg.Queues) == 0 {
		cfg.Queues = DefaultQueues
	}
	if cfg.ResultTTL == 0 {
		cfg.ResultTTL = DefaultResultTTL
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	if cfg.ShellTimeout == 0 {
		cfg.ShellTimeout = DefaultShellTimeout
	}
	if cfg.Shell == "" {
		cfg.Shell = DefaultShell
	}

	return &Worker{
		rdb:        rdb,
		containers: containers,
		cfg:        cfg,
	}
}

// Returns the number of tasks processed since the worker started.
func (w *Worker) Processed() uint64 {
	return w.processed.Load()
}

// Runs the task listener loop until the context is cancelled.
//
// Each iteration blocks on BLPOP across all configured queues, decodes the
// popped task, executes it, and stores the result. Malformed payloads are
// logged and skipped; Redis errors trigger a backoff before the loop
// resumes. The loop itself never fails: the worker stays up until told to
// stop, and cancellation returns nil.
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("listening for tasks", "queues", w.cfg.Queues)

	for {
		popped, err := w.rdb.BLPop(ctx, 0, w.cfg.Queues...).Result()
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("task listener stopped")
				return nil
			}

			slog.Error("queue pop failed", "error", err)
			if !sleep(ctx, w.cfg.RetryBackoff) {
				return nil
			}
			continue
		}

		// BLPOP returns the queue name followed by the popped value.
		if len(popped) != 2 {
			slog.Error("unexpected BLPOP reply", "len", len(popped))
			continue
		}

		w.handle(ctx, popped[0], popped[1])
	}
}

// Processes a single queue payload end-to-end.
func (w *Worker) handle(ctx context.Context, queue, payload string) {
	slog.Info("task received", "queue", queue)
	slog.Debug("task payload", "payload", payload)

	task, err := decodeTask([]byte(payload))
	if err != nil {
		slog.Error("dropping malformed task", "queue", queue, "error", err)
		return
	}

	slog.Info("processing task", "task", task.ID, "type", task.Type, "target", task.TargetHost)

	output, err := w.execute(ctx, task)
	if err != nil {
		slog.Error("task failed", "task", task.ID, "error", err)
	}

	storeResult(ctx, w.rdb, task.ID, formatResult(output, err), w.cfg.ResultTTL)
	w.processed.Add(1)
}

// Dispatches a task to its executor.
func (w *Worker) execute(ctx context.Context, task *Task) (string, error) {
	switch task.Type {
	case TypeShell:
		return w.executeShell(ctx, task)
	case TypeDocker:
		return w.executeDocker(ctx, task)
	}

	// Unreachable: decodeTask rejects unknown types.
	return "", ErrInvalidTask
}

// Sleeps for d or until the context is cancelled.
//
// Returns false when the context ended the sleep early.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
