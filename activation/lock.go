package activation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	ps "github.com/mitchellh/go-ps"

	"github.com/ayoisaiah/autoblock/internal/osutil"
)

var findProcessFunc = ps.FindProcess

// acquire takes the exclusive activation lock without blocking and records
// the current PID in the lock file. The returned func releases the lock.
func acquire(path string) (func(), error) {
	err := os.MkdirAll(filepath.Dir(path), osutil.DirPermission)
	if err != nil {
		return nil, errLock.Fmt(path).Wrap(err)
	}

	fileLock := flock.New(path)

	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, errLock.Fmt(path).Wrap(err)
	}

	if !locked {
		holder := lockHolder(path)

		slog.Warn("activation lock is held", slog.String("path", path), slog.String("pid", holder))

		return nil, ErrAlreadyRunning.Fmt(holder)
	}

	pid := strconv.Itoa(os.Getpid())

	err = os.WriteFile(path, []byte(pid+"\n"), osutil.FilePermission)
	if err != nil {
		slog.Debug("unable to record pid in lock file", slog.Any("error", err))
	}

	return func() {
		if err := fileLock.Unlock(); err != nil {
			slog.Warn("unable to release activation lock", slog.Any("error", err))
		}
	}, nil
}

// lockHolder returns the PID recorded in the lock file if that process is
// still alive, or "unknown".
func lockHolder(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return "unknown"
	}

	p, err := findProcessFunc(pid)
	if err != nil || p == nil {
		return "unknown"
	}

	return fmt.Sprintf("%d, %s", p.Pid(), p.Executable())
}
