package cli

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/breakreel/internal/errors"
	"github.com/julianstephens/breakreel/internal/instance"
	"github.com/julianstephens/breakreel/internal/logger"
	"github.com/julianstephens/breakreel/internal/media"
	"github.com/julianstephens/breakreel/internal/models"
	"github.com/julianstephens/breakreel/internal/notifier"
	"github.com/julianstephens/breakreel/internal/playback"
	"github.com/julianstephens/breakreel/internal/scheduler"
	"github.com/julianstephens/breakreel/internal/storage"
)

type Context struct {
	Store        storage.Provider
	Lock         *instance.Lock
	Notifier     *notifier.Notifier
	ConfigDir    string
	VideoEngine  string
	AudioEngine  string
	StartupGrace time.Duration
	// Background fills the presentation surface around the video
	Background string
}

// NewScheduler wires the media collaborators around window.
func (c *Context) NewScheduler(window playback.Window, opts ...scheduler.Option) *scheduler.Scheduler {
	presenter := playback.NewPresenter(window,
		playback.NewExecSurfaceFactory(c.VideoEngine),
		playback.WithStartupGrace(c.StartupGrace),
		playback.WithSurfaceOptions(c.SurfaceOptions()),
	)
	return scheduler.New(media.NewCollector(), playback.NewAlarmPlayer(c.AudioEngine), presenter, opts...)
}

// SurfaceOptions are the default surface attributes with the configured
// background color.
func (c *Context) SurfaceOptions() playback.SurfaceOptions {
	opts := playback.DefaultSurfaceOptions()
	if c.Background != "" {
		opts.Background = c.Background
	}
	return opts
}

// LastSession returns the remembered config, or a zero config when there
// is none or it cannot be read.
func (c *Context) LastSession() models.SessionConfig {
	cfg, ok, err := c.Store.LastSession()
	if err != nil {
		logger.Warn("Failed to read remembered settings", "error", err)
		return models.SessionConfig{}
	}
	if !ok {
		return models.SessionConfig{}
	}
	return cfg
}

// SessionRunner starts sessions while holding the instance lock and
// remembers every config that started successfully.
type SessionRunner struct {
	ctx    *Context
	sched  *scheduler.Scheduler
	parent context.Context

	mu      sync.Mutex
	current *scheduler.Session
}

func (c *Context) NewSessionRunner(parent context.Context, sched *scheduler.Scheduler) *SessionRunner {
	return &SessionRunner{ctx: c, sched: sched, parent: parent}
}

func (r *SessionRunner) Start(cfg models.SessionConfig) (*scheduler.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		select {
		case <-r.current.Done():
			r.release()
			r.current = nil
		default:
			return nil, apperrors.ErrSessionActive
		}
	}

	id := uuid.NewString()
	if err := r.ctx.Lock.Acquire(id); err != nil {
		return nil, err
	}
	session, err := r.sched.StartSession(r.parent, id, cfg)
	if err != nil {
		r.release()
		return nil, err
	}
	r.current = session

	if err := r.ctx.Store.SaveLastSession(cfg); err != nil {
		logger.Warn("Failed to remember settings", "session", id, "error", err)
	}

	go func() {
		<-session.Done()
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.current == session {
			r.release()
		}
	}()
	return session, nil
}

// Shutdown stops the current session, waits for it, and releases the lock.
func (r *SessionRunner) Shutdown() {
	r.mu.Lock()
	session := r.current
	r.mu.Unlock()

	if session != nil {
		session.Stop()
		<-session.Done()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.release()
	r.current = nil
}

func (r *SessionRunner) release() {
	if err := r.ctx.Lock.Release(); err != nil {
		logger.Warn("Failed to release lockfile", "path", r.ctx.Lock.Path(), "error", err)
	}
}

// FormatMinutes renders an interval the way it was entered.
func FormatMinutes(cfg models.SessionConfig) string {
	return fmt.Sprintf("%s min", strconv.FormatFloat(cfg.IntervalMinutes(), 'f', -1, 64))
}
