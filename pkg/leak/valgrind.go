package leak

// Runs the subject binary under valgrind and classifies whether a definite
// leak occurred. This is a separate invocation with its own lifecycle,
// independent of the timed benchmark run.

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	// Exit code valgrind reports on internal tool error, distinguished from
	// the subject's own exit codes.
	ERROR_EXIT_CODE = 42

	UNAVAILABLE_DIAGNOSTIC = "valgrind not available"
	TIMEOUT_DIAGNOSTIC     = "timeout expired"
)

var valgrindFlags = []string{
	"--leak-check=full",
	"--show-leak-kinds=all",
	"--track-origins=yes",
	"--error-exitcode=" + strconv.Itoa(ERROR_EXIT_CODE),
}

type Analyzer struct {
	path string // empty when valgrind is not installed
}

// NewAnalyzer probes for valgrind once. A missing tool is not an error;
// the returned analyzer reports it as unavailable and every check degrades
// to "no leak detected".
func NewAnalyzer() *Analyzer {
	path, err := exec.LookPath("valgrind")
	if err != nil {
		path = ""
	}
	return &Analyzer{path: path}
}

func (a *Analyzer) Available() bool {
	return a.path != ""
}

// CheckForLeaks runs the binary with the given arguments under valgrind,
// waiting up to timeout, and returns whether a nonzero "definitely lost"
// byte count was reported, along with valgrind's raw diagnostic output.
func (a *Analyzer) CheckForLeaks(ctx context.Context, binary string, args []string, timeout time.Duration) (bool, string) {
	if !a.Available() {
		return false, UNAVAILABLE_DIAGNOSTIC
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdArgs := append(append([]string{}, valgrindFlags...), binary)
	cmdArgs = append(cmdArgs, args...)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.path, cmdArgs...)
	cmd.Stderr = &stderr // valgrind writes its summary to stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return false, TIMEOUT_DIAGNOSTIC
	}
	output := stderr.String()
	if err != nil && output == "" {
		return false, err.Error()
	}

	return definitelyLostBytes(output) > 0, output
}

// definitelyLostBytes extracts the byte count from valgrind's
// "definitely lost: N bytes in M blocks" summary line. Returns 0 when the
// line is absent or unparsable.
func definitelyLostBytes(output string) int64 {
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, "definitely lost:")
		if idx < 0 {
			continue
		}
		fields := strings.Fields(line[idx:])
		// fields: ["definitely", "lost:", "N", "bytes", ...]
		if len(fields) < 3 {
			continue
		}
		raw := strings.ReplaceAll(fields[2], ",", "")
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		return n
	}
	return 0
}
