package server

import "errors"

// ErrNotRunning is returned by Reload when no server loop is running.
var ErrNotRunning = errors.New("server not running")
