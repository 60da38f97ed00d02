package bench

import (
	"io"
	"os/exec"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// reapGracePeriod bounds the final wait for a force-killed subject so a
// stuck kernel-side exit can never block the suite.
const reapGracePeriod = 5 * time.Second

// handle owns the subject process for the duration of one test case. The
// process is guaranteed terminated, normally or forcibly, before the handle
// is discarded.
type handle struct {
	cmd    *exec.Cmd
	exited chan int
}

// startSubject spawns the subject binary in its own session so the whole
// process group can be killed on timeout. Stdout/stderr go to output,
// which may be nil to discard them.
func startSubject(binary string, args []string, output io.Writer) (*handle, error) {
	cmd := exec.Command(binary, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Stdout = output
	cmd.Stderr = output

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	h := &handle{
		cmd:    cmd,
		exited: make(chan int, 1),
	}

	// Wait for the process to exit, send exit code
	go func() {
		err := cmd.Wait()
		if err != nil {
			log.Debug().Err(err).Msg("subject Wait()")
		}
		h.exited <- cmd.ProcessState.ExitCode()
		close(h.exited)
	}()

	return h, nil
}

func (h *handle) pid() int32 {
	return int32(h.cmd.Process.Pid)
}

// kill force-terminates the subject's process group, falling back to the
// process itself if the group signal fails.
func (h *handle) kill() {
	pid := h.cmd.Process.Pid
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		h.cmd.Process.Kill()
	}
}

// reap blocks until the exit code is collected, bounded by the grace
// period. Returns the exit code and whether the process was reaped.
func (h *handle) reap() (int, bool) {
	select {
	case code := <-h.exited:
		return code, true
	case <-time.After(reapGracePeriod):
		return 0, false
	}
}
