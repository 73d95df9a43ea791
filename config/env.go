package config

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
)

// DownloadLocation resolves the directory spotdl downloads into.
// Precedence: saved settings, CADENZA_DOWNLOADS env var, ~/Music.
func DownloadLocation() string {
	if saved := userDownloadLocation(); saved != "" {
		return saved
	}
	if customPath := os.Getenv("CADENZA_DOWNLOADS"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if the home dir is unknown
		return filepath.Join(".", "downloads")
	}
	return filepath.Join(homeDir, "Music")
}

// SpotdlPath resolves the spotdl executable. Precedence: SPOTDL_PATH
// env var, the conventional venv install at ~/.venv/bin/spotdl, PATH.
func SpotdlPath() string {
	if p := os.Getenv("SPOTDL_PATH"); p != "" {
		return p
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		venvPath := filepath.Join(homeDir, ".venv", "bin", "spotdl")
		if _, err := os.Stat(venvPath); err == nil {
			return venvPath
		}
	}
	if p, err := exec.LookPath("spotdl"); err == nil {
		return p
	}
	// Let the spawn fail with a clear "file not found" at start time.
	return "spotdl"
}

// DefaultThreads is the spotdl thread count for album and playlist
// downloads when neither the request nor the saved settings name one.
const DefaultThreads = 4

// UserSettings represents the user's persisted settings
type UserSettings struct {
	DownloadLocation string `json:"downloadLocation"`
	Threads          int    `json:"threads,omitempty"`
}

// DownloadThreads resolves the default spotdl thread count: saved
// settings, else DefaultThreads.
func DownloadThreads() int {
	if settings := savedSettings(); settings != nil && settings.Threads > 0 {
		return settings.Threads
	}
	return DefaultThreads
}

// SettingsFilePath returns the path to the settings file
func SettingsFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".cadenza-settings.json")
}

// LoadSettings loads the persisted settings, falling back to defaults
// when no settings file exists.
func LoadSettings() (*UserSettings, error) {
	settingsPath := SettingsFilePath()

	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return &UserSettings{
			DownloadLocation: DownloadLocation(),
			Threads:          DefaultThreads,
		}, nil
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, err
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings persists the settings file.
func SaveSettings(settings *UserSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(SettingsFilePath(), data, 0644)
}

// userDownloadLocation reads the saved download location, or "" when
// there is none.
func userDownloadLocation() string {
	if settings := savedSettings(); settings != nil {
		return settings.DownloadLocation
	}
	return ""
}

// savedSettings reads the settings file, or nil when it is absent or
// unreadable.
func savedSettings() *UserSettings {
	data, err := os.ReadFile(SettingsFilePath())
	if err != nil {
		return nil
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil
	}
	return &settings
}
