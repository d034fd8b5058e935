// Package pid keeps a single daemon from driving the panels at a time.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
)

const fileName = "ledmatrixctl.pid"

// Path returns the PID file location.
func Path() string {
	return filepath.Join(os.TempDir(), fileName)
}

// Write records the current process ID. It fails with already_running
// when the file names a live process; a stale or unreadable file is
// replaced.
func Write() error {
	errFactory := errors.New()
	path := Path()

	if owner, ok := readPID(path); ok && owner != os.Getpid() && alive(owner) {
		return errFactory.WithData(errors.ErrAlreadyRunning, owner)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove deletes the PID file if it belongs to this process.
func Remove() error {
	path := Path()

	owner, ok := readPID(path)
	if !ok || owner != os.Getpid() {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
