// Package osutil holds operating system names and file modes shared across
// packages.
package osutil

import "runtime"

const (
	Windows = "windows"
	Darwin  = "darwin"
)

const (
	DirPermission  = 0o755
	FilePermission = 0o644
	// PrivatePermission is used for files only the current user may read.
	PrivatePermission = 0o600
)

// IsDarwin reports whether the program runs on macOS, the only platform
// where the blocking tool and its authorization prompt exist.
func IsDarwin() bool {
	return runtime.GOOS == Darwin
}
