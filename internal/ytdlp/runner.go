package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// EventKind classifies entries in a process output stream.
type EventKind int

const (
	// EventLine carries one line written to standard output.
	EventLine EventKind = iota
	// EventError reports an ungraceful process failure.
	EventError
	// EventTerminated is the final event of every stream.
	EventTerminated
)

// Event is one entry in the ordered, finite output stream of a process.
type Event struct {
	Kind     EventKind
	Line     string
	Err      error
	ExitCode int
}

// Process is a started external tool with a streaming output channel. The
// event channel is consumed at most once and closes after EventTerminated.
type Process struct {
	cmd    *exec.Cmd
	events chan Event
}

// Events returns the ordered output stream.
func (p *Process) Events() <-chan Event {
	return p.events
}

// Kill signals the process to terminate. Idempotent and safe to call after
// the process has already exited.
func (p *Process) Kill() {
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}

// Runner spawns an external executable with captured output.
type Runner struct {
	bin string
}

// NewRunner wraps a resolved executable path.
func NewRunner(bin string) *Runner {
	return &Runner{bin: bin}
}

// Start launches the tool and begins streaming its standard output as
// events. Spawn failures are returned directly.
func (r *Runner) Start(ctx context.Context, args ...string) (*Process, error) {
	cmd := exec.CommandContext(ctx, r.bin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("capture stdout: %w", err)
	}
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", r.bin, err)
	}

	p := &Process{
		cmd:    cmd,
		events: make(chan Event, 64),
	}
	go p.pump(stdout)
	return p, nil
}

// pump forwards stdout lines and finishes with exactly one terminated event.
func (p *Process) pump(stdout io.Reader) {
	defer close(p.events)

	reader := bufio.NewReader(stdout)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			p.events <- Event{Kind: EventLine, Line: strings.TrimRight(line, "\r\n")}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.events <- Event{Kind: EventError, Err: err}
			}
			break
		}
	}

	exitCode := 0
	if err := p.cmd.Wait(); err != nil {
		exitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			p.events <- Event{Kind: EventError, Err: err}
		}
	}
	p.events <- Event{Kind: EventTerminated, ExitCode: exitCode}
}

// Output runs the tool to completion and returns its buffered standard
// output. Used for info probes where the tool emits one JSON document.
func (r *Runner) Output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s failed: %w: %s", r.bin, err, msg)
		}
		return "", fmt.Errorf("%s failed: %w", r.bin, err)
	}

	return stdout.String(), nil
}
