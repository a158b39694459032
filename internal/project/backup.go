package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/RectSect/internal/applog"
	"github.com/piwi3910/RectSect/internal/model"
)

// BackupVersion is written into every backup. Backups whose major version
// differs are refused.
const BackupVersion = "1.0.0"

// Backup is a snapshot of the effective rectsect config, taken with
// -backup and applied with -restore.
type Backup struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
}

// WriteBackup stores cfg at path, creating parent directories.
func WriteBackup(path string, cfg model.AppConfig) error {
	b := Backup{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    cfg,
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	applog.Config("backup of config written to %s", path)
	return nil
}

// ReadBackup loads a backup written by WriteBackup. Settings the file leaves
// out keep their DefaultAppConfig values, so a hand-trimmed backup such as
// {"version":"1.0.0","config":{"max_order":2}} still caps input at
// DefaultMaxRectangles and runs one worker.
func ReadBackup(path string) (Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Backup{}, fmt.Errorf("failed to read backup file: %w", err)
	}

	b := Backup{Config: model.DefaultAppConfig()}
	if err := json.Unmarshal(data, &b); err != nil {
		return Backup{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if b.Version == "" {
		return Backup{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if major(b.Version) != major(BackupVersion) {
		return Backup{}, fmt.Errorf("unsupported backup version %s (expected %s.x)", b.Version, major(BackupVersion))
	}
	if err := checkConfig(b.Config); err != nil {
		return Backup{}, fmt.Errorf("invalid backup file: %w", err)
	}
	// An explicit null palette falls back to the defaults
	if b.Config.Palette == nil {
		b.Config.Palette = model.DefaultAppConfig().Palette
	}
	return b, nil
}

func major(version string) string {
	v, _, _ := strings.Cut(version, ".")
	return v
}

func checkConfig(c model.AppConfig) error {
	switch {
	case c.MaxRectangles < 0:
		return fmt.Errorf("max_rectangles must be >= 0, got %d", c.MaxRectangles)
	case c.MaxOrder < 0:
		return fmt.Errorf("max_order must be >= 0, got %d", c.MaxOrder)
	case c.Workers < 1:
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	return nil
}
