// Package simplelogger appends debug lines to the file named by SEGDIFF_LOG_FILE. Standard output is reserved for reports, so diagnostics go to a file.
package simplelogger

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"
)

// EnvVar names the log file. When it is unset, logging is off.
const EnvVar = "SEGDIFF_LOG_FILE"

var (
	mu  sync.Mutex
	now = time.Now
)

// Log formats a line and appends it, prefixed with a timestamp, to the file named by SEGDIFF_LOG_FILE. A trailing newline is added if missing.
//
// If the variable is empty or the path can't be opened as a file, Log does nothing.
func Log(format string, args ...any) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var b bytes.Buffer
	b.WriteString(now().Format("15:04:05.000 "))
	_, _ = fmt.Fprintf(&b, format, args...)
	if b.Bytes()[b.Len()-1] != '\n' {
		_ = b.WriteByte('\n')
	}
	_, _ = f.Write(b.Bytes())
}

// Enabled reports whether Log writes anywhere. Callers use it to skip building expensive log arguments.
func Enabled() bool {
	return os.Getenv(EnvVar) != ""
}
