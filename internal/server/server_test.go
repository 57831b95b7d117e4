package server

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestStopConcurrent(t *testing.T) {
	srv := New(Config{
		SocketPath: filepath.Join(t.TempDir(), "control.sock"),
	}, nil, nil)

	// A shutdown command racing SIGTERM stops the server from two
	// goroutines at once.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Stop(); err != nil {
				t.Errorf("Stop() = %v, want nil", err)
			}
		}()
	}
	wg.Wait()

	select {
	case <-srv.Done():
	default:
		t.Fatal("Done() not closed after Stop")
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("repeated Stop() = %v, want nil", err)
	}
}
