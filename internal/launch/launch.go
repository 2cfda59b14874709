// Package launch starts the agent CLI in a pty and wires it to the parent's
// terminal. The hook server and settings artifact must already exist before
// Run is called — the child reads its hook configuration once at startup.
package launch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Spec describes the child process to launch.
type Spec struct {
	Command string
	Args    []string
	Dir     string
	Env     []string

	// Stdin and Stdout default to os.Stdin and os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer
}

// BuildArgs maps launch configuration to agent CLI flags, combined with any
// profile extra args into the complete child argument list.
func BuildArgs(sessionID, model, permissionMode string, extraArgs []string) []string {
	var args []string
	if sessionID != "" {
		args = append(args, "--session-id", sessionID)
	}
	if model != "" {
		args = append(args, "--model", model)
	}
	if permissionMode != "" {
		args = append(args, "--permission-mode", permissionMode)
	}
	return append(args, extraArgs...)
}

// Run starts the child in a pty and blocks until it exits, returning the
// child's exit code. When stdin is a terminal it is placed in raw mode for
// the duration and window size changes are propagated to the pty.
func Run(ctx context.Context, spec Spec) (int, error) {
	stdin := spec.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := spec.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env

	ptm, err := pty.Start(cmd)
	if err != nil {
		return -1, fmt.Errorf("start %s: %w", spec.Command, err)
	}
	defer ptm.Close()

	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		oldState, err := term.MakeRaw(int(f.Fd()))
		if err == nil {
			defer term.Restore(int(f.Fd()), oldState)
		}

		winch := make(chan os.Signal, 1)
		signal.Notify(winch, syscall.SIGWINCH)
		go func() {
			for range winch {
				resize(ptm, f)
			}
		}()
		resize(ptm, f)
		defer func() {
			signal.Stop(winch)
			close(winch)
		}()
	}

	// Kill the child if the context is cancelled while it runs.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cmd.Process.Kill()
		case <-done:
		}
	}()

	go io.Copy(ptm, stdin)

	// Read errors (EIO when the child exits) end the copy; the child's exit
	// status is what matters.
	io.Copy(stdout, ptm)

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("wait for %s: %w", spec.Command, err)
	}
	return 0, nil
}

// resize sets the pty size from the controlling terminal.
func resize(ptm, tty *os.File) {
	cols, rows, err := term.GetSize(int(tty.Fd()))
	if err != nil {
		return
	}
	pty.Setsize(ptm, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}
