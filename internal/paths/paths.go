package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	workerName = "lucius"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for runtime files (sockets, PIDs).
//
//	Linux:   $XDG_RUNTIME_DIR/lucius or /run/user/<uid>/lucius
//	macOS:   ~/Library/Caches/lucius/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, workerName)
	}
	return filepath.Join(xdg.CacheHome, workerName, "run")
}

// Default path to the Unix domain socket for CLI-to-worker communication.
//
//	Linux:   $XDG_RUNTIME_DIR/lucius/lucius.sock
//	macOS:   ~/Library/Caches/lucius/run/lucius.sock
func Socket() string {
	return filepath.Join(Runtime(), workerName+".sock")
}

// Default path to the PID file.
//
//	Linux:   $XDG_RUNTIME_DIR/lucius/lucius.pid
//	macOS:   ~/Library/Caches/lucius/run/lucius.pid
func PIDFile() string {
	return filepath.Join(Runtime(), workerName+".pid")
}

// Default path to the worker log file.
//
// The worker appends to mcp-worker.log in the XDG state directory
// (e.g., ~/.local/state/lucius/mcp-worker.log on Linux).
func LogFile() string {
	return filepath.Join(xdg.StateHome, workerName, "mcp-worker.log")
}

// Default path to the directory holding exported runtime images.
//
//	Linux:   ~/.local/share/lucius/images
func Images() string {
	return filepath.Join(xdg.DataHome, workerName, "images")
}
