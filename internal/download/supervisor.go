package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"youwee/internal/domain"
	"youwee/internal/ytdlp"
)

// ErrCancelled is the terminal outcome of a user-initiated stop. Not a
// failure; reported as a distinct status.
var ErrCancelled = errors.New("download cancelled")

// ErrDownloadInProgress is returned when starting a second download on a
// supervisor whose previous request has not reached a terminal state.
var ErrDownloadInProgress = errors.New("download already in progress")

// ExitError reports a nonzero downloader exit that was not caused by
// cancellation.
type ExitError struct {
	Code int
}

// Error surfaces the exit status.
func (e *ExitError) Error() string {
	return fmt.Sprintf("download failed with exit code %d", e.Code)
}

// State is the supervisor lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateStarting  State = "starting"
	StateRunning   State = "running"
	StateFinished  State = "finished"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// IsActive reports whether the state belongs to an in-flight download.
func (s State) IsActive() bool {
	return s == StateStarting || s == StateRunning
}

// graceInterval is the wait between the first and second broad kill when
// tearing down the process tree.
const graceInterval = 500 * time.Millisecond

// process is the minimal surface the supervisor needs from a started tool.
type process interface {
	Events() <-chan ytdlp.Event
	Kill()
}

// startFunc spawns the external downloader for one request.
type startFunc func(ctx context.Context, args ...string) (process, error)

// Supervisor owns one logical download at a time: it builds arguments,
// runs the external tool, relays classified output as progress events, and
// guarantees process-tree cleanup on every exit path. Cancellation is
// scoped to the supervisor instance, so independent supervisors can be
// stopped independently.
type Supervisor struct {
	mu       sync.Mutex
	state    State
	reserved bool
	cancel   context.CancelFunc

	start   startFunc
	killAll func(names ...string)
	grace   time.Duration
}

// NewSupervisor builds a supervisor driving the given runner.
func NewSupervisor(runner *ytdlp.Runner) *Supervisor {
	return &Supervisor{
		state: StateIdle,
		start: func(ctx context.Context, args ...string) (process, error) {
			return runner.Start(ctx, args...)
		},
		killAll: killByName,
		grace:   graceInterval,
	}
}

// NewSupervisorForTests builds a supervisor with injectable dependencies.
func NewSupervisorForTests(start startFunc, killAll func(names ...string), grace time.Duration) *Supervisor {
	return &Supervisor{
		state:   StateIdle,
		start:   start,
		killAll: killAll,
		grace:   grace,
	}
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TryAcquire atomically reserves the supervisor for an imminent Run, so a
// caller dispatching Run on a goroutine can reject a concurrent start
// synchronously instead of discovering the conflict inside the goroutine.
// The next Run consumes the reservation.
func (s *Supervisor) TryAcquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsActive() {
		return ErrDownloadInProgress
	}
	s.state = StateStarting
	s.reserved = true
	return nil
}

// Release drops a reservation that will not be followed by a Run.
func (s *Supervisor) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved {
		s.reserved = false
		s.state = StateIdle
	}
}

// Stop requests cancellation of the active download. A stop with nothing
// running is a no-op.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Run executes one download to a terminal state, invoking emit for every
// progress event plus exactly one terminal event. Returns nil on success,
// ErrCancelled on stop, and an error describing the failure otherwise.
func (s *Supervisor) Run(ctx context.Context, req domain.DownloadRequest, emit func(domain.DownloadProgress)) error {
	s.mu.Lock()
	if s.reserved {
		s.reserved = false
	} else if s.state.IsActive() {
		s.mu.Unlock()
		return ErrDownloadInProgress
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.state = StateStarting
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	err := s.supervise(runCtx, req, emit)

	s.mu.Lock()
	switch {
	case errors.Is(err, ErrCancelled):
		s.state = StateCancelled
	case err != nil:
		s.state = StateFailed
	default:
		s.state = StateFinished
	}
	s.cancel = nil
	s.mu.Unlock()
	return err
}

// supervise runs the external process and the event loop.
func (s *Supervisor) supervise(ctx context.Context, req domain.DownloadRequest, emit func(domain.DownloadProgress)) error {
	progress := domain.DownloadProgress{
		ID:     req.ID,
		Status: domain.StatusDownloading,
	}

	// Cancellation may land before the process is even spawned.
	if ctx.Err() != nil {
		s.reportCancelled(progress, emit)
		return ErrCancelled
	}

	proc, err := s.start(ctx, ytdlp.DownloadArgs(req)...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			s.teardown(proc)
			s.reportCancelled(progress, emit)
			return ErrCancelled

		case ev, ok := <-proc.Events():
			if !ok {
				// Stream ended without a terminated event.
				return &ExitError{Code: -1}
			}
			switch ev.Kind {
			case ytdlp.EventLine:
				progress = applyLine(progress, ev.Line, emit)

			case ytdlp.EventError:
				progress.Status = domain.StatusFailed
				emit(progress)
				return fmt.Errorf("process error: %w", ev.Err)

			case ytdlp.EventTerminated:
				// Cancellation wins over the exit code.
				if ctx.Err() != nil {
					s.teardown(proc)
					s.reportCancelled(progress, emit)
					return ErrCancelled
				}
				if ev.ExitCode == 0 {
					progress.Percent = 100
					progress.Speed = ""
					progress.ETA = ""
					progress.Status = domain.StatusFinished
					emit(progress)
					return nil
				}
				progress.Status = domain.StatusFailed
				emit(progress)
				return &ExitError{Code: ev.ExitCode}
			}
		}
	}
}

// applyLine merges one classified output line into the sticky progress
// record and emits when the line carried a percent update.
func applyLine(progress domain.DownloadProgress, line string, emit func(domain.DownloadProgress)) domain.DownloadProgress {
	u := ytdlp.ParseLine(line)

	if u.Title != "" {
		progress.Title = u.Title
	}

	if u.PlaylistIndex > 0 {
		if u.PlaylistIndex != progress.PlaylistIndex {
			// Playlist advanced to a new item; percent resets.
			progress.Percent = 0
			progress.Speed = ""
			progress.ETA = ""
		}
		progress.PlaylistIndex = u.PlaylistIndex
		progress.PlaylistCount = u.PlaylistCount
	}

	if u.Percent != nil {
		// Non-decreasing within one logical item.
		if *u.Percent > progress.Percent {
			progress.Percent = *u.Percent
		}
		if u.Speed != "" {
			progress.Speed = u.Speed
		}
		if u.ETA != "" {
			progress.ETA = u.ETA
		}
		emit(progress)
	}

	return progress
}

// teardown terminates the process tree: kill the child, broad-kill
// same-named helpers the tool may have forked, wait one grace interval,
// then broad-kill once more.
func (s *Supervisor) teardown(proc process) {
	proc.Kill()
	s.killAll(ytdlp.ToolName, "ffmpeg")
	go drain(proc)
	time.Sleep(s.grace)
	s.killAll(ytdlp.ToolName, "ffmpeg")
}

// reportCancelled emits the terminal cancellation event.
func (s *Supervisor) reportCancelled(progress domain.DownloadProgress, emit func(domain.DownloadProgress)) {
	progress.Speed = ""
	progress.ETA = ""
	progress.Status = domain.StatusCancelled
	emit(progress)
}

// drain consumes remaining events so the pump goroutine can finish.
func drain(proc process) {
	for range proc.Events() {
	}
}
