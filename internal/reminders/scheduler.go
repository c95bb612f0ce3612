package reminders

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chargeminder/chargeminder/internal/domain"
	"github.com/chargeminder/chargeminder/internal/pkg/civil"
)

// SweepRunner is the surface the scheduler drives. Satisfied by *Runner.
type SweepRunner interface {
	Run(ctx context.Context) *domain.RunResult
}

// sweep tracks one in-flight run so concurrent triggers can share its result
// instead of sweeping twice.
type sweep struct {
	done   chan struct{}
	result *domain.RunResult
}

// Scheduler fires one reminder sweep per day at a fixed local wall-clock time
// and serializes manually triggered sweeps against the timed one.
type Scheduler struct {
	runner SweepRunner
	loc    *time.Location
	runAt  civil.Time // wall-clock time of the daily run

	now func() time.Time

	mu       sync.Mutex
	timer    *time.Timer
	inflight *sweep
	started  bool
	stopped  bool
}

// NewScheduler creates a scheduler that runs runner daily at runAt in loc.
func NewScheduler(runner SweepRunner, loc *time.Location, runAt civil.Time) *Scheduler {
	return &Scheduler{
		runner: runner,
		loc:    loc,
		runAt:  runAt,
		now:    time.Now,
	}
}

// Start arms the daily timer and launches one catch-up sweep in the
// background, so reminders missed while the process was down go out promptly.
// Calling Start more than once is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.arm()
	go s.RunNow(context.Background())
}

// Stop cancels the pending timer. An in-flight sweep finishes on its own; the
// timer will not be re-armed afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// RunNow triggers a sweep immediately. If a sweep is already in flight the
// call blocks until it finishes and returns that sweep's result, so an API
// trigger landing during the daily run does not double-send.
func (s *Scheduler) RunNow(ctx context.Context) *domain.RunResult {
	s.mu.Lock()
	if cur := s.inflight; cur != nil {
		s.mu.Unlock()
		<-cur.done
		return cur.result
	}
	cur := &sweep{done: make(chan struct{})}
	s.inflight = cur
	s.mu.Unlock()

	// Cleanup runs even if the runner panics, so waiters are released and
	// the next trigger starts fresh.
	defer func() {
		s.mu.Lock()
		s.inflight = nil
		s.mu.Unlock()
		close(cur.done)
	}()

	cur.result = s.runner.Run(ctx)
	return cur.result
}

// NextRun reports when the timed sweep will fire next.
func (s *Scheduler) NextRun() time.Time {
	now := s.now()
	return now.Add(s.untilNextRun(now))
}

// arm schedules the timer for the next daily run. It replaces any pending
// timer, so at most one is armed at a time.
func (s *Scheduler) arm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	d := s.untilNextRun(s.now())
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, s.fire)

	slog.Info("reminder sweep scheduled", "in", d.Round(time.Second).String())
}

// fire runs the timed sweep. The timer is re-armed unconditionally, including
// after a panicking runner: one bad sweep must not silence all future days.
func (s *Scheduler) fire() {
	defer s.arm()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("reminder sweep panicked", "panic", r)
		}
	}()

	s.RunNow(context.Background())
}

// untilNextRun computes the duration until the next occurrence of the daily
// run time in the scheduler's timezone. Today's slot is used if it is still
// ahead, otherwise tomorrow's. The result is clamped to at least one second
// so a firing timer never re-arms itself into a hot loop.
func (s *Scheduler) untilNextRun(now time.Time) time.Duration {
	local := now.In(s.loc)
	day := civil.DateOf(local)

	next := civil.ToInstant(civil.Time{
		Year: day.Year, Month: day.Month, Day: day.Day,
		Hour: s.runAt.Hour, Minute: s.runAt.Minute, Second: s.runAt.Second,
	}, s.loc)

	if !next.After(now) {
		tomorrow := day.AddDays(1)
		next = civil.ToInstant(civil.Time{
			Year: tomorrow.Year, Month: tomorrow.Month, Day: tomorrow.Day,
			Hour: s.runAt.Hour, Minute: s.runAt.Minute, Second: s.runAt.Second,
		}, s.loc)
	}

	d := next.Sub(now)
	if d < time.Second {
		d = time.Second
	}
	return d
}
