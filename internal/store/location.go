package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const writeProbeName = ".test_write"

// DataLocation returns the directory holding the active data file.
func (s *Store) DataLocation() (string, error) {
	path := s.state.DataPath()
	if path == "" {
		return "", errors.New("no active data file")
	}
	return filepath.Dir(path), nil
}

// SetDataLocation moves the active data file to dir. When copyExisting is set
// and dir has no data file yet, the current file is copied there first; an
// existing file in dir is never overwritten. On any error the previous
// location and settings stay in effect. After the switch the in-memory data is
// whatever dir contains, which may be empty.
func (s *Store) SetDataLocation(dir string, copyExisting bool) error {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if err := checkDataDir(dir); err != nil {
		return err
	}
	return s.relocate(dir, copyExisting, func(st *Settings) {
		custom := dir
		st.CustomDataPath = &custom
	})
}

// ResetToDefaultLocation switches back to the platform data directory and
// clears the custom path so later startups derive the default again.
func (s *Store) ResetToDefaultLocation(copyExisting bool) error {
	dir := s.paths.DefaultDataDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return locationErr(ErrInvalidDirectory, dir, err)
	}
	if err := checkDataDir(dir); err != nil {
		return err
	}
	return s.relocate(dir, copyExisting, func(st *Settings) {
		st.CustomDataPath = nil
	})
}

// relocate runs the steps shared by both location changes: copy, persist
// settings, then load the new file. Saves wait until the switch is complete.
func (s *Store) relocate(dir string, copyExisting bool, change func(*Settings)) error {
	newFile := filepath.Join(dir, DataFileName)
	var diag *Diagnostic
	err := s.state.relocate(func(oldFile string) (string, AppData, error) {
		log := s.log.WithFields("from", oldFile, "to", newFile)

		if copyExisting {
			copied, err := copyIfAbsent(oldFile, newFile)
			if err != nil {
				log.Errorw("copy data failed", "error", err)
				return "", AppData{}, locationErr(ErrCopyFailed, newFile, err)
			}
			if copied {
				log.Infow("copied data file")
			}
		}

		err := s.state.updateSettings(change, func(st Settings) error {
			return SaveSettings(s.paths.SettingsFile(), st)
		})
		if err != nil {
			log.Errorw("save settings failed", "error", err)
			return "", AppData{}, err
		}

		var data AppData
		data, diag = LoadData(newFile)
		log.Infow("data location changed", "projects", len(data.Projects), "weeks", len(data.Weeks))
		return newFile, data, nil
	})
	// Observers may call back into the store, so report once the locks are free.
	s.report(diag)
	return err
}

func checkDataDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return locationErr(ErrInvalidDirectory, dir, errors.New("directory does not exist"))
	}
	if !fi.IsDir() {
		return locationErr(ErrInvalidDirectory, dir, errors.New("path is not a directory"))
	}

	probe := filepath.Join(dir, writeProbeName)
	if err := os.WriteFile(probe, []byte("test"), 0o644); err != nil {
		return locationErr(ErrNotWritable, dir, err)
	}
	_ = os.Remove(probe)
	return nil
}

// copyIfAbsent copies src to dst when src exists and dst does not. A failed
// copy removes whatever part of dst it created.
func copyIfAbsent(src, dst string) (bool, error) {
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return false, fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return false, err
	}
	return true, nil
}
