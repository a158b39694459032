package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/RectSect/internal/applog"
	"github.com/piwi3910/RectSect/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.rectsect/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".rectsect")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	applog.Config("saving config to %s", path)
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applog.Config("no config at %s, using defaults", path)
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	// Ensure Palette is never nil
	if config.Palette == nil {
		config.Palette = []string{}
	}
	applog.Config("loaded config from %s", path)
	return config, nil
}

// ResolveOutputPath joins a relative export path onto outputDir. Absolute
// paths and an empty outputDir leave path unchanged.
func ResolveOutputPath(outputDir, path string) string {
	if outputDir == "" || path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(outputDir, path)
}
