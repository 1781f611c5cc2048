package res

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// State is the lifecycle state of a PackageLoader.
type State int

// Loader states. Completed and Failed are terminal.
const (
	StateNotStarted State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ExtensionFunc scans additional phases after the built-in sequence.
type ExtensionFunc func(s *Scanner, path ResourcePath) error

// Option configures a PackageLoader.
type Option func(*PackageLoader)

// WithLogger sets the logger used for load progress.
func WithLogger(logger *slog.Logger) Option {
	return func(l *PackageLoader) {
		l.logger = logger
	}
}

// WithStrictI18n enables localization checks: literal text in layouts and
// non-reorderable format strings fail the load with a *ValidationError.
func WithStrictI18n(enabled bool) Option {
	return func(l *PackageLoader) {
		l.strictI18n = enabled
	}
}

// WithExtension sets a hook that runs after the built-in phases.
func WithExtension(fn ExtensionFunc) Option {
	return func(l *PackageLoader) {
		l.extension = fn
	}
}

// PackageLoader loads one resource root into an Index.
//
// A PackageLoader runs at most once and is not safe for concurrent use.
type PackageLoader struct {
	path       ResourcePath
	index      *Index
	strictI18n bool
	extension  ExtensionFunc
	logger     *slog.Logger
	state      State
}

// NewPackageLoader returns a loader that fills index from path.
func NewPackageLoader(path ResourcePath, index *Index, opts ...Option) *PackageLoader {
	l := &PackageLoader{path: path, index: index}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// log returns the logger, falling back to a discard logger if nil.
func (l *PackageLoader) log() *slog.Logger {
	if l.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.logger
}

// State returns the current lifecycle state.
func (l *PackageLoader) State() State {
	return l.state
}

// Path returns the resource path being loaded.
func (l *PackageLoader) Path() ResourcePath {
	return l.path
}

// Load runs every phase in order.
//
// It returns a *ValidationError unchanged, and any other failure, including
// a panic in a handler, as a *LoadError. Calling Load again returns
// ErrAlreadyLoaded.
func (l *PackageLoader) Load() (err error) {
	if l.state != StateNotStarted {
		return ErrAlreadyLoaded
	}
	l.state = StateRunning
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err == nil {
			l.state = StateCompleted
			l.log().Info("resources loaded",
				"package", l.path.PackageName,
				"duration", time.Since(start),
				"counts", l.index.Counts())
			return
		}
		l.state = StateFailed
		err = l.classify(err)
		l.log().Debug("resource load failed", "package", l.path.PackageName, "error", err)
	}()

	return l.loadEverything()
}

// classify applies the failure policy.
func (l *PackageLoader) classify(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return &LoadError{Package: l.path.PackageName, Err: err}
}

func (l *PackageLoader) loadEverything() error {
	pkg := l.path.PackageName
	l.log().Debug("loading resources", "package", pkg, "root", l.path.Root.String())

	s := newScanner(l.path, l.log())
	if err := s.Scan(PhaseValues, valueLoaders(l.index, pkg, l.strictI18n)...); err != nil {
		return err
	}
	if err := s.Scan(PhaseLayout, NewLayoutLoader(l.index, pkg, l.strictI18n)); err != nil {
		return err
	}
	if err := s.Scan(PhaseMenu, NewMenuLoader(l.index, pkg)); err != nil {
		return err
	}

	drawables := NewDrawableLoader(l.index, pkg)
	if err := drawables.TagNinePatches(l.path.Root); err != nil {
		return err
	}
	if err := s.Scan(PhaseDrawable, drawables); err != nil {
		return err
	}

	if err := s.Scan(PhaseXML, NewPreferenceLoader(l.index, pkg)); err != nil {
		return err
	}
	if err := s.Scan(PhaseXML, NewXMLFileLoader(l.index, pkg)); err != nil {
		return err
	}
	if err := s.ScanFiles(PhaseRaw, NewRawLoader(l.index, pkg)); err != nil {
		return err
	}

	if l.extension != nil {
		if err := l.extension(s, l.path); err != nil {
			return err
		}
	}
	l.log().Debug("phases complete", "package", pkg, "files", s.Files())
	return nil
}
