// Package config builds the per-run configuration. Everything is resolved
// once at startup into an explicit Config value that is passed into each
// component; there is no process-wide mutable state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"wrapped/internal/chatdb"
	"wrapped/internal/contacts"
)

// Config is the fully resolved runtime configuration for one invocation.
type Config struct {
	Year              int
	ChatDBPath        string
	ContactStorePaths []string
	CSVPath           string // empty means no export
}

// FileConfig is the optional on-disk config file. It only carries path
// overrides; year and export are always per-invocation.
type FileConfig struct {
	ChatDB      string `yaml:"chat_db"`
	ContactsDir string `yaml:"contacts_dir"`
}

// GetConfigDir returns the config directory, honoring an explicit override
// (useful for tests and portable installs) before XDG conventions.
func GetConfigDir() (string, error) {
	if override := os.Getenv("WRAPPED_CONFIG_DIR"); override != "" {
		return override, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wrapped"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "wrapped"), nil
}

// LoadFile reads config.yaml from the config directory. A missing file is
// not an error; it yields an empty FileConfig.
func LoadFile() (*FileConfig, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(configDir, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &fc, nil
}

// ResolveYear picks the report year from an optional positional argument.
// A missing or non-numeric argument falls back to the previous calendar
// year; it is never an error.
func ResolveYear(args []string, now time.Time) int {
	if len(args) > 0 {
		if y, err := strconv.Atoi(args[0]); err == nil {
			return y
		}
	}
	return now.Year() - 1
}

// Resolve merges flag values over the config file over built-in defaults.
func Resolve(fc *FileConfig, dbFlag, contactsDirFlag string) (chatDBPath string, storePaths []string) {
	chatDBPath = chatdb.DefaultPath()
	if fc != nil && fc.ChatDB != "" {
		chatDBPath = fc.ChatDB
	}
	if dbFlag != "" {
		chatDBPath = dbFlag
	}

	storePaths = contacts.DefaultStorePaths()
	if fc != nil && fc.ContactsDir != "" {
		storePaths = contacts.StorePathsIn(fc.ContactsDir)
	}
	if contactsDirFlag != "" {
		storePaths = contacts.StorePathsIn(contactsDirFlag)
	}
	return chatDBPath, storePaths
}
