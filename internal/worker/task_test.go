package worker

import (
	"errors"
	"testing"
)

func TestDecodeTask(t *testing.T) {
	data := []byte(`{
		"id": "task-1",
		"target_host": "node-a",
		"task_type": "DOCKER",
		"details": {"command": "list_containers"}
	}`)

	task, err := decodeTask(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.ID != "task-1" {
		t.Errorf("id = %q, want task-1", task.ID)
	}
	if task.TargetHost != "node-a" {
		t.Errorf("target_host = %q, want node-a", task.TargetHost)
	}
	if task.Type != TypeDocker {
		t.Errorf("type = %q, want DOCKER", task.Type)
	}

	command, err := task.command()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if command != "list_containers" {
		t.Errorf("command = %q, want list_containers", command)
	}
}

func TestDecodeTaskErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid json", input: "{not json"},
		{name: "missing id", input: `{"task_type": "SHELL"}`},
		{name: "unknown type", input: `{"id": "t", "task_type": "FTP"}`},
		{name: "lowercase type", input: `{"id": "t", "task_type": "shell"}`},
		{name: "empty type", input: `{"id": "t"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeTask([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidTask) {
				t.Fatalf("error %v is not ErrInvalidTask", err)
			}
		})
	}
}

func TestTaskCommandNoDetails(t *testing.T) {
	task := &Task{ID: "t", Type: TypeShell}
	command, err := task.command()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if command != "" {
		t.Errorf("command = %q, want empty", command)
	}
}

func TestResultKey(t *testing.T) {
	if got := resultKey("abc-123"); got != "mcp::result::abc-123" {
		t.Fatalf("resultKey = %q", got)
	}
}

func TestFormatResult(t *testing.T) {
	if got := formatResult("done", nil); got != "SUCCESS: done" {
		t.Errorf("success result = %q", got)
	}
	if got := formatResult("", errors.New("boom")); got != "ERROR: boom" {
		t.Errorf("error result = %q", got)
	}
}
