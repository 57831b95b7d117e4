package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Redis.Addr() != "127.0.0.1:6379" {
		t.Fatalf("redis addr = %q, want 127.0.0.1:6379", cfg.Redis.Addr())
	}
	if cfg.Pipeline.Output != "dist" {
		t.Errorf("pipeline output = %q, want dist", cfg.Pipeline.Output)
	}
	if cfg.Pipeline.Root != "." {
		t.Errorf("pipeline root = %q, want .", cfg.Pipeline.Root)
	}
	if cfg.Log.MaxSize == 0 {
		t.Error("log max_size should default to non-zero")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
redis:
  host: redis.internal
  port: 6380
  db: 2
worker:
  queues: ["mcp::tasks::shell"]
  result_ttl: 7200
runtime:
  address: /run/containerd/containerd.sock
  namespace: lucius-test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Redis.Addr() != "redis.internal:6380" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr())
	}
	if cfg.Redis.DB != 2 {
		t.Errorf("redis db = %d, want 2", cfg.Redis.DB)
	}
	if len(cfg.Worker.Queues) != 1 || cfg.Worker.Queues[0] != "mcp::tasks::shell" {
		t.Errorf("queues = %v", cfg.Worker.Queues)
	}
	if cfg.Worker.ResultTTL != 7200 {
		t.Errorf("result_ttl = %d, want 7200", cfg.Worker.ResultTTL)
	}
	if cfg.Runtime.Namespace != "lucius-test" {
		t.Errorf("namespace = %q", cfg.Runtime.Namespace)
	}

	// Fields absent from the file keep their defaults.
	if cfg.Pipeline.Output != "dist" {
		t.Errorf("pipeline output = %q, want dist", cfg.Pipeline.Output)
	}
}

func TestLoadUnknownField(t *testing.T) {
	path := writeConfig(t, "redsi:\n  host: oops\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRedisHostEnvOverride(t *testing.T) {
	t.Setenv("REDIS_HOST", "queue.example.com")

	cfg := Default()
	if cfg.Redis.Host != "queue.example.com" {
		t.Fatalf("redis host = %q, want env override", cfg.Redis.Host)
	}

	path := writeConfig(t, "redis:\n  host: from-file\n  port: 6379\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redis.Host != "queue.example.com" {
		t.Fatalf("redis host = %q, env should win over file", cfg.Redis.Host)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lucius.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
