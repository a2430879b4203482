// Package runner launches the external particle simulator.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrNoProgram = errors.New("runner: no simulator program configured")

// stderrTail is how much of the simulator's stderr a ProcessError keeps.
const stderrTail = 2048

// ProcessError reports a simulator that ran but did not exit cleanly.
type ProcessError struct {
	Program  string
	ExitCode int
	Stderr   string
	Wrapped  error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("runner: %s exited with code %d", filepath.Base(e.Program), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Wrapped
}

// Simulator is one invocation of the simulator program.
type Simulator struct {
	Program string
	Args    []string
	Dir     string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Run starts the program and waits for it to finish. Canceling ctx kills
// the process.
func (s *Simulator) Run(ctx context.Context) error {
	if s.Program == "" {
		return ErrNoProgram
	}

	cmd := exec.CommandContext(ctx, s.Program, s.Args...)
	cmd.Dir = s.Dir
	cmd.Stdout = s.Stdout

	tail := &tailBuffer{max: stderrTail}
	if s.Stderr != nil {
		cmd.Stderr = io.MultiWriter(s.Stderr, tail)
	} else {
		cmd.Stderr = tail
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("runner: %s: %w", filepath.Base(s.Program), ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ProcessError{
			Program:  s.Program,
			ExitCode: exitErr.ExitCode(),
			Stderr:   tail.String(),
			Wrapped:  err,
		}
	}
	return fmt.Errorf("runner: start %s: %w", s.Program, err)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if extra := t.buf.Len() - t.max; extra > 0 {
		t.buf.Next(extra)
	}
	return n, nil
}

func (t *tailBuffer) String() string { return t.buf.String() }

// WriteInput writes the simulator's legacy input file, which names the
// simulation to run.
func WriteInput(path, simulationName string) error {
	if simulationName == "" {
		return errors.New("runner: empty simulation name")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("<simulationName> "+simulationName), 0644)
}
