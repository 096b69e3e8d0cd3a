package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sadopc/timemanager/internal/logging"
)

// Options configures Open.
type Options struct {
	Paths  Paths
	Logger *logging.Logger
	// OnDiagnostic, if set, is called for every fail-soft load event.
	OnDiagnostic func(Diagnostic)
}

// Store exposes the read and write operations the front ends call. All state
// lives in the injected State; Store adds paths, logging and diagnostics.
type Store struct {
	paths  Paths
	state  *State
	log    *logging.Logger
	onDiag func(Diagnostic)

	diagMu sync.Mutex
	diags  []Diagnostic
}

// Open loads settings and data from disk and returns a ready Store. The only
// hard failure is being unable to create the config or default data
// directory; unreadable files fall back to defaults.
func Open(opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	s := &Store{
		paths:  opts.Paths,
		log:    opts.Logger.WithComponent("store"),
		onDiag: opts.OnDiagnostic,
	}

	if err := os.MkdirAll(s.paths.ConfigDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	settings, diag := LoadSettings(s.paths.SettingsFile())
	s.report(diag)

	dataPath, err := s.resolveDataPath(settings)
	if err != nil {
		return nil, err
	}
	data, diag := LoadData(dataPath)
	s.report(diag)

	s.state = NewState(data, dataPath, settings)
	s.log.Infow("store opened", "data_path", dataPath, "projects", len(data.Projects), "weeks", len(data.Weeks))
	return s, nil
}

// resolveDataPath picks the custom directory when it still exists and falls
// back to the default directory otherwise.
func (s *Store) resolveDataPath(settings Settings) (string, error) {
	if settings.CustomDataPath != nil {
		dir := *settings.CustomDataPath
		if isDir(dir) {
			return filepath.Join(dir, DataFileName), nil
		}
		s.report(&Diagnostic{
			Kind: DiagCustomPathUnavailable,
			Path: dir,
			Err:  fmt.Errorf("custom data path does not exist or is not a directory"),
		})
	}
	if err := os.MkdirAll(s.paths.DefaultDataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return s.paths.DefaultDataFile(), nil
}

func (s *Store) report(d *Diagnostic) {
	if d == nil {
		return
	}
	s.log.Warnw("falling back to defaults", "kind", string(d.Kind), "path", d.Path, "error", d.Err)

	s.diagMu.Lock()
	s.diags = append(s.diags, *d)
	s.diagMu.Unlock()

	if s.onDiag != nil {
		s.onDiag(*d)
	}
}

// Diagnostics returns every fail-soft event recorded since Open.
func (s *Store) Diagnostics() []Diagnostic {
	s.diagMu.Lock()
	defer s.diagMu.Unlock()
	return append([]Diagnostic(nil), s.diags...)
}

func (s *Store) Paths() Paths  { return s.paths }
func (s *Store) State() *State { return s.state }

// LoadAppData returns a copy of the in-memory record.
func (s *Store) LoadAppData() (AppData, error) {
	return s.state.Data(), nil
}

// SaveAppData replaces the whole record and writes it to disk.
func (s *Store) SaveAppData(data AppData) error {
	data = data.Clone()
	err := s.state.update(func(d *AppData) { *d = data })
	if err != nil {
		s.log.Errorw("save data failed", "error", err)
	}
	return err
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
