package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/applicake-tools/searchcake/info"
)

// killGrace is how long a cancelled tool gets to exit after SIGTERM before
// its output pipes are closed and it is killed.
const killGrace = 5 * time.Second

// Runner executes apps. The zero value is not usable; start from
// DefaultRunner.
type Runner struct {
	Log *zap.Logger

	// Shell interprets the commands returned by Prepare. Commands are joined
	// with '&&', so a failing command stops the chain.
	Shell string

	// When true, the output of the commands is copied to the current
	// process's stdout and stderr in addition to being captured.
	Verbose bool
}

// DefaultRunner logs nothing, uses /bin/sh and captures output silently.
var DefaultRunner = Runner{
	Log:     zap.NewNop(),
	Shell:   "/bin/sh",
	Verbose: false,
}

// RunWrapped resolves the arguments of a, prepares it, runs its commands and
// validates the result. The returned info is what the pipeline should see
// next; inf itself is not modified.
func (r Runner) RunWrapped(ctx context.Context, a Wrapped, inf info.Info) (info.Info, error) {
	inf, err := r.setup(a.Args(), inf)
	if err != nil {
		return nil, err
	}

	inf, commands, err := a.Prepare(r.Log, inf)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	code, out, err := r.Execute(ctx, commands)
	if err != nil {
		return nil, err
	}

	inf, err = a.Validate(r.Log, inf, code, out)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return inf, nil
}

// RunBasic resolves the arguments of a and runs it.
func (r Runner) RunBasic(ctx context.Context, a Basic, inf info.Info) (info.Info, error) {
	inf, err := r.setup(a.Args(), inf)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.Run(r.Log, inf)
}

func (r Runner) setup(args []Argument, inf info.Info) (info.Info, error) {
	inf = inf.Copy()
	if err := Resolve(args, inf); err != nil {
		return nil, err
	}
	if wd := inf.Get(info.WorkDir); len(wd) > 0 {
		if err := os.MkdirAll(wd, 0755); err != nil {
			return nil, fmt.Errorf("could not create work directory: %w", err)
		}
	}
	return inf, nil
}

// Execute runs commands, chained with '&&', in r.Shell and returns the exit
// code along with everything written to stdout and stderr.
//
// A nonzero exit code is not an error: judging it is up to the app. An
// error is returned only when the shell could not be started or ctx was
// cancelled. A command killed by signal N yields exit code -N.
//
// The shell runs in its own process group. Cancelling ctx sends SIGTERM to
// the whole group, so the tool the shell is waiting on stops too.
func (r Runner) Execute(ctx context.Context, commands []string) (int, string, error) {
	if len(commands) == 0 {
		return 0, "", nil
	}
	line := strings.Join(commands, " && ")
	r.Log.Info("executing", zap.String("command", line))

	var buf bytes.Buffer
	c := exec.CommandContext(ctx, r.Shell, "-c", line)
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = killGrace
	if r.Verbose {
		fmt.Fprintf(os.Stderr, "\n%s\n", line)
		sw := &syncWriter{w: &buf}
		c.Stdout = io.MultiWriter(sw, os.Stdout)
		c.Stderr = io.MultiWriter(sw, os.Stderr)
	} else {
		c.Stdout = &buf
		c.Stderr = &buf
	}

	err := c.Run()
	if ctx.Err() != nil {
		return 0, buf.String(), ctx.Err()
	}
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 0, buf.String(), fmt.Errorf("could not run '%s': %w", line, err)
		}
		code = exitCode(exitErr)
	}
	r.Log.Info("finished", zap.Int("exit_code", code), zap.Int("output_bytes", buf.Len()))
	return code, buf.String(), nil
}

// exitCode follows the convention of reporting death by signal N as -N. The
// shell itself reports such a child as 128+N, which is mapped the same way.
func exitCode(err *exec.ExitError) int {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}
	code := err.ExitCode()
	if code > 128 && code <= 128+64 {
		return -(code - 128)
	}
	return code
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// Quote returns s quoted for the shell if it contains anything other than
// letters, digits and the characters in "-_./=:,+@%".
func Quote(s string) string {
	if len(s) == 0 {
		return "''"
	}
	safe := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./=:,+@%", r):
		default:
			safe = false
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
