package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/breakreel/internal/constants"
	apperrors "github.com/julianstephens/breakreel/internal/errors"
	"github.com/julianstephens/breakreel/internal/logger"
	"github.com/julianstephens/breakreel/internal/models"
	"github.com/julianstephens/breakreel/internal/playback"
)

// MediaCollector picks the video for a tick.
type MediaCollector interface {
	PickRandom(folder string) (string, error)
}

// AlarmPlayer plays the alarm to completion.
type AlarmPlayer interface {
	Play(ctx context.Context, path string) error
}

// VideoPresenter shows a video full-screen.
type VideoPresenter interface {
	Play(ctx context.Context, path string, mode constants.HideMode) (playback.Outcome, error)
}

// StateChange is published to the observer on every transition.
type StateChange struct {
	SessionID string
	State     constants.SchedulerState
	At        time.Time
	Interval  time.Duration
	Ticks     int
	// Err is the failure of the tick that just ended, if any
	Err error
}

// Scheduler runs the wait → alarm → video loop of a session.
type Scheduler struct {
	collector MediaCollector
	alarm     AlarmPlayer
	presenter VideoPresenter
	clock     clockwork.Clock
	observer  func(StateChange)

	mu     sync.Mutex
	state  constants.SchedulerState
	ticks  int
	active *Session
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the real clock, e.g. with a clockwork.FakeClock in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithObserver registers fn to be called on every state transition. fn runs
// on the session goroutine and must not block.
func WithObserver(fn func(StateChange)) Option {
	return func(s *Scheduler) {
		s.observer = fn
	}
}

// New creates an idle scheduler.
func New(collector MediaCollector, alarm AlarmPlayer, presenter VideoPresenter, opts ...Option) *Scheduler {
	s := &Scheduler{
		collector: collector,
		alarm:     alarm,
		presenter: presenter,
		clock:     clockwork.NewRealClock(),
		state:     constants.StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session is one run from start to Stopped.
type Session struct {
	ID     string
	Config models.SessionConfig

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Stop cancels the session. It is safe to call any number of times from any goroutine.
func (s *Session) Stop() {
	s.cancel()
}

// Done is closed once the session has reached Stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session has stopped.
func (s *Session) Wait() error {
	<-s.done
	return s.err
}

// Start validates cfg and runs the session loop on its own goroutine until
// ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context, cfg models.SessionConfig) (*Session, error) {
	return s.StartSession(ctx, uuid.NewString(), cfg)
}

// StartSession is Start with a caller-chosen session ID.
func (s *Scheduler) StartSession(ctx context.Context, id string, cfg models.SessionConfig) (*Session, error) {
	if id == "" {
		return nil, errors.New("session ID is empty")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.active != nil {
		select {
		case <-s.active.done:
		default:
			s.mu.Unlock()
			return nil, apperrors.ErrSessionActive
		}
	}
	runCtx, cancel := context.WithCancel(ctx)
	session := &Session{
		ID:     id,
		Config: cfg,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.active = session
	s.ticks = 0
	s.mu.Unlock()

	go func() {
		defer close(session.done)
		defer cancel()
		session.err = s.run(runCtx, session)
	}()

	return session, nil
}

// State returns the current state.
func (s *Scheduler) State() constants.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ticks returns the number of ticks completed by the current session.
func (s *Scheduler) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Active returns the running session, or nil.
func (s *Scheduler) Active() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	select {
	case <-s.active.done:
		return nil
	default:
		return s.active
	}
}

func (s *Scheduler) run(ctx context.Context, session *Session) error {
	interval := session.Config.Interval()
	logger.Info("Session started",
		"session", session.ID,
		"folder", session.Config.MediaFolder,
		"audio", session.Config.AudioFile,
		"interval", interval,
		"hide_mode", session.Config.HideMode,
	)

	var tickErr error
	for {
		s.setState(session, constants.StateWaiting, tickErr)
		if !s.wait(ctx, interval) {
			s.setState(session, constants.StateStopped, nil)
			logger.Info("Session stopped", "session", session.ID, "ticks", s.Ticks())
			return nil
		}
		tickErr = s.tick(ctx, session)
		if ctx.Err() != nil {
			s.setState(session, constants.StateStopped, tickErr)
			logger.Info("Session stopped", "session", session.ID, "ticks", s.Ticks())
			return nil
		}
	}
}

// wait reports whether the interval elapsed without the session being cancelled.
func (s *Scheduler) wait(ctx context.Context, d time.Duration) bool {
	timer := s.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return ctx.Err() == nil
	}
}

// tick plays the alarm then a video. Failures are logged and returned so
// the loop can report them, but never end the session.
func (s *Scheduler) tick(ctx context.Context, session *Session) (err error) {
	cfg := session.Config
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panicked: %v", r)
			logger.Error("Tick panicked", "session", session.ID, "panic", r)
		}
	}()

	s.setState(session, constants.StatePlayingAudio, nil)
	alarmCtx := ctx
	if !cfg.InterruptAlarm {
		alarmCtx = context.WithoutCancel(ctx)
	}
	if alarmErr := s.alarm.Play(alarmCtx, cfg.AudioFile); alarmErr != nil && !errors.Is(alarmErr, context.Canceled) {
		logTickError("Alarm failed", alarmErr, "session", session.ID, "path", cfg.AudioFile)
		err = alarmErr
	}
	if ctx.Err() != nil {
		return err
	}

	s.setState(session, constants.StatePlayingVideo, nil)
	video, pickErr := s.collector.PickRandom(cfg.MediaFolder)
	if pickErr != nil {
		logTickError("Skipping video", pickErr, "session", session.ID, "folder", cfg.MediaFolder)
		s.completeTick()
		return errors.Join(err, pickErr)
	}

	outcome, playErr := s.presenter.Play(ctx, video, cfg.HideMode)
	switch {
	case playErr != nil:
		logTickError("Video failed", playErr, "session", session.ID, "path", video, "outcome", outcome)
		err = errors.Join(err, playErr)
	default:
		logger.Info("Video finished", "session", session.ID, "path", video, "outcome", outcome)
	}

	if outcome != playback.OutcomeCancelled {
		s.completeTick()
	}
	return err
}

// logTickError logs the expected per-tick failures (missing media, engine
// trouble) as warnings and anything else as an error. Neither ends the session.
func logTickError(msg string, err error, keyvals ...interface{}) {
	keyvals = append(keyvals, "error", err)
	if apperrors.IsTickError(err) {
		logger.Warn(msg, keyvals...)
		return
	}
	logger.Error(msg, keyvals...)
}

func (s *Scheduler) completeTick() {
	s.mu.Lock()
	s.ticks++
	s.mu.Unlock()
}

func (s *Scheduler) setState(session *Session, state constants.SchedulerState, err error) {
	s.mu.Lock()
	s.state = state
	change := StateChange{
		SessionID: session.ID,
		State:     state,
		At:        s.clock.Now(),
		Interval:  session.Config.Interval(),
		Ticks:     s.ticks,
		Err:       err,
	}
	s.mu.Unlock()

	logger.Debug("Scheduler state changed", "session", session.ID, "state", state, "ticks", change.Ticks)
	if s.observer != nil {
		s.observer(change)
	}
}
