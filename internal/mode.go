package internal

import (
	"strconv"
	"sync/atomic"
)

var (
	quietMode atomic.Bool // Suppress informational log output.
	debugMode atomic.Bool // Emit debug log output.
)

// Default mode values, overridable via ldflags at build time.
var (
	rawQuiet = "false"
	rawDebug = "false"
)

// Parses the linker-flag defaults into the runtime mode switches.
func init() {
	if v, err := strconv.ParseBool(rawQuiet); err == nil {
		quietMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawDebug); err == nil {
		debugMode.Store(v)
	}
}

// Enables or disables quiet mode.
func SetQuiet(enabled bool) {
	quietMode.Store(enabled)
}

// Returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode.Load()
}

// Enables or disables debug mode.
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
}

// Returns true if debug mode is enabled.
func IsDebug() bool {
	return debugMode.Load()
}
