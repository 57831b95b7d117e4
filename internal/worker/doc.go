// Package worker implements the MCP task worker.
//
// The worker blocks on BLPOP across its task queues, decodes each popped
// JSON task, executes it, and writes the outcome back to Redis under
// mcp::result::<id> with a TTL, prefixed "SUCCESS: " or "ERROR: ".
//
// Two task types exist: SHELL tasks run a command through the configured
// shell with a timeout, and DOCKER tasks query the containerd runtime
// (currently list_containers). The listener loop survives everything short
// of cancellation: malformed tasks are dropped with a log line, failed
// tasks report an ERROR result, and Redis errors back the loop off for a
// few seconds before it resumes.
package worker
