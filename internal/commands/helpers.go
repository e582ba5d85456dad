package commands

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// LastRun summarizes the most recent completed run found in a log file
type LastRun struct {
	At        time.Time
	RunID     string
	Processed int
	Failed    int
}

// ParseLogFile reads the last maxLines lines of the log file and extracts the
// most recent "run completed" entry.
func ParseLogFile(logPath string, maxLines int) ([]string, *LastRun, error) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return nil, nil, err
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if !strings.Contains(line, "run completed") {
			continue
		}

		run := &LastRun{}
		// Format: 2025-11-27 14:11:57 INFO run completed run_id=... processed=3 failed=0
		if len(line) > 19 {
			if t, err := time.ParseInLocation(time.DateTime, line[:19], time.Local); err == nil {
				run.At = t
			}
		}
		for _, field := range strings.Fields(line) {
			key, value, ok := strings.Cut(field, "=")
			if !ok {
				continue
			}
			switch key {
			case "run_id":
				run.RunID = value
			case "processed":
				_, _ = fmt.Sscanf(value, "%d", &run.Processed) //nolint:errcheck // best effort parsing
			case "failed":
				_, _ = fmt.Sscanf(value, "%d", &run.Failed) //nolint:errcheck // best effort parsing
			}
		}
		return recentLines, run, nil
	}

	return recentLines, nil, nil
}
