package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backup moves the config file aside to a timestamped sibling
// (backup_<timestamp>_<name>) and returns the backup path. Used by
// 'sso reset' before starting a fresh wizard.
func Backup(path string) (string, error) {
	ts := time.Now().Format("20060102_150405")
	dir := filepath.Dir(path)
	backup := filepath.Join(dir, fmt.Sprintf("backup_%s_%s", ts, filepath.Base(path)))
	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("failed to back up config: %w", err)
	}
	return backup, nil
}
