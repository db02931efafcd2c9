package playback

import (
	"sync"
)

// ExecSurfaceFactory renders videos in an external player window (mpv or vlc)
// configured as the presentation surface.
type ExecSurfaceFactory struct {
	engine string
}

// NewExecSurfaceFactory returns a factory for the named engine; "auto" picks the first one installed.
func NewExecSurfaceFactory(engine string) *ExecSurfaceFactory {
	return &ExecSurfaceFactory{engine: engine}
}

// NewSurface resolves the engine. Nothing is shown until Play is called.
func (f *ExecSurfaceFactory) NewSurface(opts SurfaceOptions) (Surface, error) {
	name, binary, err := ResolveVideoEngine(f.engine)
	if err != nil {
		return nil, err
	}
	return &execSurface{name: name, binary: binary, opts: opts}, nil
}

type execSurface struct {
	name   string
	binary string
	opts   SurfaceOptions

	mu      sync.Mutex
	current *process
}

func (s *execSurface) Play(path string) (Playback, error) {
	p, err := startProcess(s.name, s.binary, videoArgs(s.name, s.opts, path)...)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
	return p, nil
}

func (s *execSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	err := s.current.Stop()
	s.current = nil
	return err
}
