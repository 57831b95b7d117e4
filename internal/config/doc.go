// Package config loads the worker's YAML configuration.
//
// Configuration is optional: every field has a usable default, so the
// worker runs with no config file at all. A file layered over the defaults
// can adjust the Redis connection, task listener behavior, containerd
// endpoint, pipeline paths, and log rotation. The REDIS_HOST environment
// variable overrides the configured Redis host in all cases.
package config
