package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/BoxStack/internal/model"
)

// DefaultProfilesPath returns the default file path for custom settings profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.SettingsProfile) error {
	return writeJSON(path, profiles)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.SettingsProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.SettingsProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.SettingsProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}

	// Ensure loaded profiles are not marked as built-in
	for i := range profiles {
		profiles[i].IsBuiltIn = false
	}
	return profiles, nil
}

// AllProfiles returns the built-in profiles followed by the custom ones
// stored at path.
func AllProfiles(path string) ([]model.SettingsProfile, error) {
	custom, err := LoadCustomProfiles(path)
	if err != nil {
		return model.BuiltInProfiles(), err
	}
	return append(model.BuiltInProfiles(), custom...), nil
}

// ExportProfile exports a single profile to a JSON file (for sharing).
func ExportProfile(path string, profile model.SettingsProfile) error {
	profile.IsBuiltIn = false
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile imports a single profile from a JSON file. The settings must
// pass validation.
func ImportProfile(path string) (model.SettingsProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SettingsProfile{}, err
	}

	profile := model.SettingsProfile{Settings: model.DefaultSettings()}
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.SettingsProfile{}, err
	}

	profile.IsBuiltIn = false
	if profile.Name == "" {
		return model.SettingsProfile{}, errors.New("imported profile has no name")
	}
	if err := profile.Settings.Validate(); err != nil {
		return model.SettingsProfile{}, err
	}
	return profile, nil
}
