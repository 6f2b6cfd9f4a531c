package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

// ProgramSource supplies program images by name.
type ProgramSource interface {
	Program(ctx context.Context, name string) ([]byte, error)
}

// DefaultMaxProgramFile is the largest file a DirSource will read.
const DefaultMaxProgramFile = 64 << 10

// ProgramExts are the file extensions listed by DirSource.List.
var ProgramExts = []string{".ch8", ".c8", ".rom"}

// DirSource reads programs from a file system.
type DirSource struct {
	FS      fs.FS
	MaxSize int64 // zero means DefaultMaxProgramFile
}

// NewDirSource returns a DirSource for the named directory.
func NewDirSource(dir string) *DirSource {
	return &DirSource{FS: os.DirFS(dir)}
}

// Program reads the named program. Names are slash-separated paths
// relative to the root of the source and may not contain ".." elements.
func (s *DirSource) Program(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	f, err := s.FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", name)
	}
	max := s.MaxSize
	if max <= 0 {
		max = DefaultMaxProgramFile
	}
	b, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("%s: larger than %d bytes", name, max)
	}
	return b, nil
}

// List returns the names of the program files in the root of the source,
// sorted.
func (s *DirSource) List() ([]string, error) {
	ents, err := fs.ReadDir(s.FS, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range ents {
		if e.IsDir() || !IsProgramFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// IsProgramFile reports whether name has one of ProgramExts.
func IsProgramFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range ProgramExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Poster runs functions on a controller's goroutine. Loop is a Poster.
type Poster interface {
	Post(f func()) bool
}

var (
	// ErrSuperseded is returned by Select when a later selection
	// was made while the program was being fetched.
	ErrSuperseded = errors.New("selection superseded")
	// ErrStopped is returned by Select when the loop has stopped.
	ErrStopped = errors.New("loop stopped")
)

// Selector fetches programs by name and starts sessions for them.
// Its methods may be called from any goroutine.
type Selector struct {
	Source     ProgramSource
	Loop       Poster
	Controller *Controller

	// OnStart, if non-nil, is called on the loop's goroutine
	// after a session starts.
	OnStart func(name string)
	// OnError, if non-nil, is called once for each selection
	// that fails to fetch or load.
	OnError func(name string, err error)

	mu      sync.Mutex
	gen     uint64
	current string
}

// Select fetches the named program and, unless another selection is made
// in the meantime, starts a session running it. A fetch failure leaves the
// current session running. Load failures are reported through OnError.
func (s *Selector) Select(ctx context.Context, name string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	p, err := s.Source.Program(ctx, name)
	if err != nil {
		err = fmt.Errorf("fetching %s: %w", name, err)
		s.report(name, err)
		return err
	}
	if !s.latest(gen) {
		return ErrSuperseded
	}
	ok := s.Loop.Post(func() {
		if !s.latest(gen) {
			return
		}
		if err := s.Controller.StartSession(p); err != nil {
			s.report(name, err)
			return
		}
		s.mu.Lock()
		s.current = name
		s.mu.Unlock()
		if s.OnStart != nil {
			s.OnStart(name)
		}
	})
	if !ok {
		return ErrStopped
	}
	return nil
}

// Current returns the name of the program most recently started.
func (s *Selector) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Selector) latest(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

func (s *Selector) report(name string, err error) {
	if s.OnError != nil {
		s.OnError(name, err)
	}
}
