package pipeline

import (
	"io"
	"testing"
	"time"
)

func TestParseCopy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		workdir string
		src     string
		dest    string
		wantErr bool
	}{
		{
			name:  "absolute dest",
			input: "worker /usr/local/bin/worker",
			src:   "worker",
			dest:  "/usr/local/bin/worker",
		},
		{
			name:    "relative dest with workdir",
			input:   "worker bin/",
			workdir: "/app",
			src:     "worker",
			dest:    "/app/bin",
		},
		{
			name:    "relative dest without workdir",
			input:   "worker bin/",
			wantErr: true,
		},
		{
			name:    "missing destination",
			input:   "worker",
			wantErr: true,
		},
		{
			name:    "too many tokens",
			input:   "a b c",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dest, err := parseCopy(tt.input, tt.workdir)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src != tt.src {
				t.Errorf("src = %q, want %q", src, tt.src)
			}
			if dest != tt.dest {
				t.Errorf("dest = %q, want %q", dest, tt.dest)
			}
		})
	}
}

func TestParseStageCopy(t *testing.T) {
	tests := []struct {
		name  string
		input string
		stage string
		path  string
		ok    bool
	}{
		{
			name:  "valid stage copy",
			input: "build:/out/lucius-mcp-worker",
			stage: "build",
			path:  "/out/lucius-mcp-worker",
			ok:    true,
		},
		{
			name:  "no colon",
			input: "/usr/local/bin",
		},
		{
			name:  "colon at start",
			input: ":/some/path",
		},
		{
			name:  "colon after slash",
			input: "/foo:bar",
		},
		{
			name:  "slash in prefix",
			input: "some/stage:path",
		},
		{
			name:  "simple host path",
			input: "worker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage, path, ok := parseStageCopy(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			if stage != tt.stage {
				t.Errorf("stage = %q, want %q", stage, tt.stage)
			}
			if path != tt.path {
				t.Errorf("path = %q, want %q", path, tt.path)
			}
		})
	}
}

func TestPipeCopy(t *testing.T) {
	payload := []byte("artifact bytes")

	var received []byte
	err := pipeCopy(
		func(w io.Writer) error {
			_, err := w.Write(payload)
			return err
		},
		func(r io.Reader) error {
			var err error
			received, err = io.ReadAll(r)
			return err
		},
	)
	if err != nil {
		t.Fatalf("pipeCopy() = %v, want nil", err)
	}
	if string(received) != string(payload) {
		t.Fatalf("received %q, want %q", received, payload)
	}
}

func TestPipeCopyDestinationFailure(t *testing.T) {
	wantErr := io.ErrUnexpectedEOF
	sourceDone := make(chan error, 1)

	done := make(chan error, 1)
	go func() {
		done <- pipeCopy(
			func(w io.Writer) error {
				// Keep writing until the abandoned pipe is closed under us.
				for {
					if _, err := w.Write([]byte("chunk")); err != nil {
						sourceDone <- err
						return err
					}
				}
			},
			func(r io.Reader) error {
				buf := make([]byte, 1)
				r.Read(buf)
				return wantErr
			},
		)
	}()

	select {
	case err := <-done:
		if err != wantErr {
			t.Fatalf("pipeCopy() = %v, want %v", err, wantErr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pipeCopy did not return after destination failure")
	}

	select {
	case err := <-sourceDone:
		if err == nil {
			t.Fatal("source write succeeded after pipe close")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("source goroutine still blocked on the pipe")
	}
}
