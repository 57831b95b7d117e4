package worker

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// Upper bound on how long a finished-or-killed shell task may hold its
// output pipes open before the worker abandons them. Without it, an
// orphaned background child inheriting stdout/stderr would block the
// worker past the task timeout.
const shellWaitDelay = time.Second

// Executes a SHELL task.
//
// The task's details.command is passed to the configured shell via -c,
// bounded by the shell timeout. Standard output is the task result;
// a non-zero exit reports the captured stderr.
func (w *Worker) executeShell(ctx context.Context, task *Task) (string, error) {
	command, err := task.command()
	if err != nil {
		return "", err
	}
	if command == "" {
		return "", errors.Wrap(ErrInvalidTask, "shell task has no command")
	}

	ctx, cancel := context.WithTimeout(ctx, w.cfg.ShellTimeout)
	defer cancel()

	slog.Debug("shell exec", "task", task.ID, "command", command)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, w.cfg.Shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = shellWaitDelay

	// The shell runs in its own process group so that cancellation kills
	// the whole tree, not just the shell. Children forked by the command
	// would otherwise outlive the timeout.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.Wrapf(ErrShell, "timed out after %s", w.cfg.ShellTimeout)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", errors.Wrapf(ErrShell, "exit code %d: %s", exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", errors.Wrapf(ErrShell, "%v", err)
	}

	return stdout.String(), nil
}
