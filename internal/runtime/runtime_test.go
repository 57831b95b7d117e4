package runtime

import (
	goruntime "runtime"
	"strings"
	"testing"
)

func TestImageTag(t *testing.T) {
	tag := imageTag("/images/golang.tar")

	if !strings.HasPrefix(tag, "import/") {
		t.Fatalf("tag = %q, want import/ prefix", tag)
	}
	if !strings.HasSuffix(tag, ":latest") {
		t.Fatalf("tag = %q, want :latest suffix", tag)
	}

	hex := strings.TrimSuffix(strings.TrimPrefix(tag, "import/"), ":latest")
	if len(hex) != 64 {
		t.Fatalf("tag digest %q has length %d, want 64", hex, len(hex))
	}
}

func TestImageTagDistinctPaths(t *testing.T) {
	if imageTag("/images/golang.tar") != imageTag("/images/golang.tar") {
		t.Fatal("same path produced different tags")
	}
	if imageTag("/images/golang.tar") == imageTag("/images/alpine.tar") {
		t.Fatal("different paths produced the same tag")
	}
}

func TestDefaultPlatform(t *testing.T) {
	want := "linux/" + goruntime.GOARCH
	if got := DefaultPlatform(); got != want {
		t.Fatalf("DefaultPlatform() = %q, want %q", got, want)
	}
}
