package server

import "errors"

// Sentinel error for server failures.
var ErrServer = errors.New("server error")
