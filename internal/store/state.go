package store

import "sync"

// State is the in-process container shared by every operation. Each field has
// its own lock. When an operation needs both the data and the path it takes
// them in that order. Settings is taken alone, except by a relocation, which
// takes it last.
type State struct {
	dataMu sync.Mutex
	data   AppData

	pathMu   sync.Mutex
	dataPath string

	settingsMu sync.Mutex
	settings   Settings
}

func NewState(data AppData, dataPath string, settings Settings) *State {
	normalize(&data)
	return &State{data: data, dataPath: dataPath, settings: settings}
}

// Data returns a copy of the current record.
func (s *State) Data() AppData {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	return s.data.Clone()
}

func (s *State) DataPath() string {
	s.pathMu.Lock()
	defer s.pathMu.Unlock()
	return s.dataPath
}

func (s *State) Settings() Settings {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	return s.settings.Clone()
}

// update applies fn to the in-memory record and writes the whole record to
// the active data file while still holding the data lock. The in-memory change
// stays even if the write fails.
func (s *State) update(fn func(d *AppData)) error {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	fn(&s.data)

	s.pathMu.Lock()
	defer s.pathMu.Unlock()
	return SaveData(s.dataPath, s.data)
}

// updateSettings persists the changed settings first and only replaces the
// in-memory copy once the write succeeded.
func (s *State) updateSettings(fn func(st *Settings), persist func(Settings) error) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	next := s.settings.Clone()
	fn(&next)
	if err := persist(next); err != nil {
		return err
	}
	s.settings = next
	return nil
}

// relocate runs fn with the data and path locks held from start to finish, so
// no save can reach the old file while it is copied or after fn has moved
// away from it. When fn succeeds the path and data it returns become current.
func (s *State) relocate(fn func(oldPath string) (string, AppData, error)) error {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.pathMu.Lock()
	defer s.pathMu.Unlock()

	path, data, err := fn(s.dataPath)
	if err != nil {
		return err
	}
	normalize(&data)
	s.dataPath = path
	s.data = data
	return nil
}
