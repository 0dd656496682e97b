package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// LogFilePath builds a per-session log file path using OS-appropriate path
// separators, e.g. logs/hytempo.20260830_120000.log.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", appName, sessionStart.Format("20060102_150405")),
	)
}
