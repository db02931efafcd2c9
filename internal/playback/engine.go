package playback

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/julianstephens/breakreel/internal/constants"
	apperrors "github.com/julianstephens/breakreel/internal/errors"
)

var (
	lookPathFunc    = exec.LookPath
	execCommandFunc = exec.Command
)

// ResolveAudioEngine returns the engine name and binary used for the alarm.
func ResolveAudioEngine(name string) (string, string, error) {
	return resolve(name, constants.AudioEngines)
}

// ResolveAlarmEngine is ResolveAudioEngine for one clip. In auto mode it
// skips paplay for anything but .wav, since older libsndfile builds cannot
// decode mp3.
func ResolveAlarmEngine(name, path string) (string, string, error) {
	if name != "" && name != constants.EngineAuto {
		return ResolveAudioEngine(name)
	}
	candidates := constants.AudioEngines
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		candidates = slices.DeleteFunc(slices.Clone(candidates), func(engine string) bool {
			return engine == constants.EnginePAPlay
		})
	}
	return resolve(name, candidates)
}

// ResolveVideoEngine returns the engine name and binary used for videos.
func ResolveVideoEngine(name string) (string, string, error) {
	return resolve(name, constants.VideoEngines)
}

func resolve(name string, candidates []string) (string, string, error) {
	if name == "" || name == constants.EngineAuto {
		for _, candidate := range candidates {
			if path, err := lookPathFunc(candidate); err == nil {
				return candidate, path, nil
			}
		}
		return "", "", fmt.Errorf("%w: tried %s", apperrors.ErrNoEngine, strings.Join(candidates, ", "))
	}

	if !slices.Contains(candidates, name) {
		return "", "", fmt.Errorf("unsupported engine %q (supported: %s)", name, strings.Join(candidates, ", "))
	}
	path, err := lookPathFunc(name)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s not found in PATH", apperrors.ErrNoEngine, name)
	}
	return name, path, nil
}

func audioArgs(engine, path string) []string {
	switch engine {
	case constants.EngineMPV:
		return []string{"--no-video", "--no-terminal", "--really-quiet", "--", path}
	case constants.EngineFFPlay:
		return []string{"-nodisp", "-autoexit", "-loglevel", "error", path}
	case constants.EngineCVLC:
		return []string{"--play-and-exit", "--quiet", path}
	default:
		// afplay and paplay take the file as their only argument
		return []string{path}
	}
}

func videoArgs(engine string, opts SurfaceOptions, path string) []string {
	switch engine {
	case constants.EngineVLC:
		args := []string{"-I", "dummy", "--play-and-exit", "--no-video-title-show", "--quiet"}
		if opts.Fullscreen {
			args = append(args, "--fullscreen")
		}
		if opts.AlwaysOnTop {
			args = append(args, "--video-on-top")
		}
		if opts.InputDisabled {
			args = append(args, "--no-keyboard-events", "--no-mouse-events")
		}
		if opts.CursorHidden {
			args = append(args, "--mouse-hide-timeout=0")
		}
		return append(args, path)
	default:
		args := []string{"--no-terminal", "--really-quiet", "--force-window=yes", "--keep-open=no", "--no-osc", "--osd-level=0"}
		if opts.Fullscreen {
			args = append(args, "--fullscreen")
		}
		if opts.AlwaysOnTop {
			args = append(args, "--ontop")
		}
		if opts.InputDisabled {
			args = append(args, "--no-input-default-bindings", "--input-vo-keyboard=no", "--input-cursor=no")
		}
		if opts.CursorHidden {
			args = append(args, "--cursor-autohide=always")
		}
		if opts.Background != "" {
			args = append(args, "--background-color="+opts.Background)
		}
		return append(args, "--", path)
	}
}

// process is a running media engine. It implements Playback.
type process struct {
	name    string
	cmd     *exec.Cmd
	stderr  bytes.Buffer
	done    chan struct{}
	err     error
	stopped atomic.Bool
}

func startProcess(name, binary string, args ...string) (*process, error) {
	p := &process{
		name: name,
		cmd:  execCommandFunc(binary, args...),
		done: make(chan struct{}),
	}
	p.cmd.Stderr = &p.stderr

	if err := p.cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting %s: %v", apperrors.ErrPlaybackFailed, name, err)
	}

	go func() {
		err := p.cmd.Wait()
		if err != nil && !p.stopped.Load() {
			p.err = fmt.Errorf("%w: %s exited: %v%s", apperrors.ErrPlaybackFailed, name, err, stderrTail(p.stderr.String()))
		}
		close(p.done)
	}()

	return p, nil
}

// Done is closed once the engine has exited.
func (p *process) Done() <-chan struct{} {
	return p.done
}

// Err reports why the engine exited. Only meaningful after Done is closed.
func (p *process) Err() error {
	return p.err
}

// Stop kills the engine and waits for it to exit. Calling Stop more than once is fine.
func (p *process) Stop() error {
	p.stopped.Store(true)
	select {
	case <-p.done:
		return nil
	default:
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stopping %s: %w", p.name, err)
	}
	<-p.done
	return nil
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	const tailLen = 200
	if len(s) > tailLen {
		s = s[len(s)-tailLen:]
	}
	return ": " + s
}
