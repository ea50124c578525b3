package cli

import (
	"errors"

	"github.com/photondrift/adrscan/internal/direrr"
)

// Exit codes per spec §6: 0 no drift, 1 drift detected, 2 config error,
// 3 I/O error, 4 internal error.
const (
	exitNoDrift      = 0
	exitDriftFound   = 1
	exitConfigError  = 2
	exitIOError      = 3
	exitInternalErr  = 4
)

// exitCodeFor classifies err into the exit code contract, walking the
// wrapped error chain built by internal/direrr's Unwrap methods.
func exitCodeFor(err error) int {
	if err == nil {
		return exitNoDrift
	}

	var cfgErr *direrr.ConfigError
	if errors.As(err, &cfgErr) {
		return exitConfigError
	}

	var readErr *direrr.ReadError
	if errors.As(err, &readErr) {
		return exitIOError
	}

	var snapErr *direrr.SnapshotVersionError
	if errors.As(err, &snapErr) {
		return exitIOError
	}

	var timeoutErr *direrr.PatternTimeout
	if errors.As(err, &timeoutErr) {
		return exitIOError
	}

	return exitInternalErr
}
