package ytdlp

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

// collectEvents drains a process stream with a timeout guard.
func collectEvents(t *testing.T, p *Process) []Event {
	t.Helper()

	var events []Event
	deadline := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-p.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-deadline:
			t.Fatal("timed out waiting for process events")
		}
	}
}

// TestRunnerStreamsLines runs a real shell and checks line framing plus the
// final terminated event.
func TestRunnerStreamsLines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	r := NewRunner("sh")
	p, err := r.Start(context.Background(), "-c", "printf 'one\\ntwo\\n'")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	events := collectEvents(t, p)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(events), events)
	}
	if events[0].Kind != EventLine || events[0].Line != "one" {
		t.Fatalf("events[0] = %+v, want line 'one'", events[0])
	}
	if events[1].Kind != EventLine || events[1].Line != "two" {
		t.Fatalf("events[1] = %+v, want line 'two'", events[1])
	}
	last := events[2]
	if last.Kind != EventTerminated || last.ExitCode != 0 {
		t.Fatalf("last event = %+v, want terminated with code 0", last)
	}
}

// TestRunnerReportsExitCode verifies nonzero exits surface on the
// terminated event, not as errors.
func TestRunnerReportsExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	r := NewRunner("sh")
	p, err := r.Start(context.Background(), "-c", "exit 3")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	events := collectEvents(t, p)
	last := events[len(events)-1]
	if last.Kind != EventTerminated || last.ExitCode != 3 {
		t.Fatalf("last event = %+v, want terminated with code 3", last)
	}
	for _, ev := range events {
		if ev.Kind == EventError {
			t.Fatalf("nonzero exit must not produce an error event: %+v", ev)
		}
	}
}

// TestRunnerStripsCarriageReturns checks CRLF output is normalized.
func TestRunnerStripsCarriageReturns(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	r := NewRunner("sh")
	p, err := r.Start(context.Background(), "-c", "printf 'progress\\r\\n'")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	events := collectEvents(t, p)
	if events[0].Line != "progress" {
		t.Fatalf("line = %q, want CR stripped", events[0].Line)
	}
}

// TestProcessKillIsIdempotent verifies repeated kills after exit are safe.
func TestProcessKillIsIdempotent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	r := NewRunner("sh")
	p, err := r.Start(context.Background(), "-c", "sleep 30")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	p.Kill()
	p.Kill()
	events := collectEvents(t, p)

	last := events[len(events)-1]
	if last.Kind != EventTerminated {
		t.Fatalf("last event = %+v, want terminated", last)
	}
	if last.ExitCode == 0 {
		t.Fatal("killed process should not report exit code 0")
	}

	p.Kill() // after exit
}

// TestRunnerStartFailure checks spawn errors are returned directly.
func TestRunnerStartFailure(t *testing.T) {
	r := NewRunner("/nonexistent/definitely-missing-binary")
	if _, err := r.Start(context.Background()); err == nil {
		t.Fatal("expected start error for missing binary")
	}
}

// TestRunnerOutput verifies buffered runs return stdout and embed stderr in
// failures.
func TestRunnerOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	r := NewRunner("sh")
	out, err := r.Output(context.Background(), "-c", "printf 'payload'")
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if out != "payload" {
		t.Fatalf("out = %q, want 'payload'", out)
	}

	_, err = r.Output(context.Background(), "-c", "echo 'boom' >&2; exit 1")
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error %q should carry stderr", err.Error())
	}
}
