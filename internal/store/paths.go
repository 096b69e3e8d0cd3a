package store

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

// AppID names the per-application config and data directories.
const AppID = "com.timemanager.app"

// Paths holds the two fixed directories the store works from. ConfigDir holds
// settings.json; DefaultDataDir holds the data file unless Settings points
// somewhere else.
type Paths struct {
	ConfigDir      string
	DefaultDataDir string
}

func (p Paths) SettingsFile() string {
	return filepath.Join(p.ConfigDir, SettingsFileName)
}

func (p Paths) DefaultDataFile() string {
	return filepath.Join(p.DefaultDataDir, DataFileName)
}

// DefaultPaths resolves the platform config and data directories.
//
//   - Linux:   $XDG_CONFIG_HOME/<id>, $XDG_DATA_HOME/<id> (~/.config, ~/.local/share)
//   - macOS:   ~/Library/Application Support/<id> for both
//   - Windows: %APPDATA%\<id> for both
func DefaultPaths() (Paths, error) {
	cfg, err := configBaseDir()
	if err != nil {
		return Paths{}, err
	}
	data, err := dataBaseDir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{
		ConfigDir:      filepath.Join(cfg, AppID),
		DefaultDataDir: filepath.Join(data, AppID),
	}, nil
}

func configBaseDir() (string, error) {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

func dataBaseDir() (string, error) {
	switch runtime.GOOS {
	case "windows", "darwin":
		return configBaseDir()
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}
