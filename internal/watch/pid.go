package watch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrNotRunning is returned when no live watcher owns the PID file.
var ErrNotRunning = errors.New("watcher not running")

// WritePID records the current process ID in path
func WritePID(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}

	content := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// ReadPID reads the watcher PID from path
func ReadPID(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w (PID file not found)", ErrNotRunning)
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	return pid, nil
}

// RemovePID removes the PID file
func RemovePID(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// IsRunning reports whether the process named in path is alive, its PID and
// roughly when it started. A stale PID file is removed.
func IsRunning(path string) (bool, int, time.Time) {
	pid, err := ReadPID(path)
	if err != nil {
		return false, 0, time.Time{}
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0, time.Time{}
	}

	// Signal 0 only probes for existence.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = RemovePID(path)
		return false, 0, time.Time{}
	}

	var started time.Time
	if info, err := os.Stat(path); err == nil {
		started = info.ModTime()
	}
	return true, pid, started
}

// Stop asks the watcher named in path to shut down
func Stop(path string) error {
	running, pid, _ := IsRunning(path)
	if !running {
		return ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}
	return nil
}
