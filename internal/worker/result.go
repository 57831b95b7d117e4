package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefix under which task results are stored.
const resultKeyPrefix = "mcp::result::"

// Returns the Redis key holding the result for a task.
func resultKey(id string) string {
	return resultKeyPrefix + id
}

// Formats a task outcome as the wire value dispatchers read back.
//
// Successful output is prefixed "SUCCESS: ", failures "ERROR: ".
func formatResult(output string, err error) string {
	if err != nil {
		return "ERROR: " + err.Error()
	}
	return "SUCCESS: " + output
}

// Writes a task result to Redis with the configured TTL.
//
// Result delivery is best-effort: a write failure is logged but does not
// fail the task, since the work itself already ran.
func storeResult(ctx context.Context, rdb *redis.Client, id, value string, ttl time.Duration) {
	if err := rdb.Set(ctx, resultKey(id), value, ttl).Err(); err != nil {
		slog.Error("failed to store task result", "task", id, "error", err)
		return
	}
	slog.Info("task result stored", "task", id, "key", resultKey(id))
}
