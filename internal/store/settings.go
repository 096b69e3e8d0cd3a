package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// SettingsFileName is the name of the settings file inside the config directory.
const SettingsFileName = "settings.json"

// LoadSettings reads the settings file at path with the same fail-soft rules
// as LoadData.
func LoadSettings(path string) (Settings, *Diagnostic) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, readDiagnostic(path, err)
	}
	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return Settings{}, parseDiagnostic(path, err)
	}
	return s, nil
}

func SaveSettings(path string, s Settings) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return writeErr("marshal settings", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return writeErr(fmt.Sprintf("write settings file %s", path), err)
	}
	return nil
}
