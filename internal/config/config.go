// Package config loads and persists the workspace configuration.
//
// The config lives as config.json in the workspace metadata directory
// and is validated against the strict Config schema: unknown fields
// are rejected. A missing file is valid and implies defaults. Each
// process caches the config per metadata directory after the first
// load; a later on-disk edit is not observed by an already-loaded
// process except through Update, which load-merges-validates and
// atomically rewrites the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mrz1836/taskmd/internal/constants"
	"github.com/mrz1836/taskmd/internal/domain"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/schema"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750 // Secure directory permissions
	filePerm = 0o600 // Secure file permissions
)

// cache holds per-process loaded configs keyed by metadata directory.
var cache = struct {
	mu      sync.Mutex
	configs map[string]*domain.Config
}{configs: make(map[string]*domain.Config)}

// Load returns the workspace config for the given metadata directory,
// reading and validating config.json on first use and serving the
// cached instance afterwards.
func Load(metaDir string) (*domain.Config, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cfg, ok := cache.configs[metaDir]; ok {
		return cfg, nil
	}

	cfg, err := loadFromDisk(metaDir)
	if err != nil {
		return nil, err
	}
	cache.configs[metaDir] = cfg
	return cfg, nil
}

// Update applies changes on top of the current on-disk config,
// validates the merged result, atomically rewrites config.json, and
// refreshes the process cache. Setting a value to nil removes the key,
// falling back to its default.
func Update(metaDir string, changes map[string]any) (*domain.Config, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	raw, err := readRaw(filepath.Join(metaDir, constants.ConfigFileName))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		raw = defaultRaw()
	}
	for k, v := range changes {
		if v == nil {
			delete(raw, k)
			continue
		}
		raw[k] = v
	}

	cfg, err := schema.ValidateConfig(raw)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, taskmderrors.Wrap(err, "failed to encode config")
	}
	data = append(data, '\n')

	if err := os.MkdirAll(metaDir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create metadata directory: %v: %w", err, taskmderrors.ErrFileSystem)
	}
	if err := atomicWrite(filepath.Join(metaDir, constants.ConfigFileName), data); err != nil {
		return nil, err
	}

	cache.configs[metaDir] = cfg
	return cfg, nil
}

// ClearCache drops every cached config. Tests use this to force
// reloads across temp workspaces.
func ClearCache() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.configs = make(map[string]*domain.Config)
}

// loadFromDisk reads and validates config.json, or returns defaults
// when the file does not exist.
func loadFromDisk(metaDir string) (*domain.Config, error) {
	raw, err := readRaw(filepath.Join(metaDir, constants.ConfigFileName))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return domain.DefaultConfig(), nil
	}
	cfg, err := schema.ValidateConfig(raw)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// readRaw reads a JSON object file into a map. A missing file returns
// (nil, nil).
func readRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is constructed from the workspace metadata dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid config file: %v: %w", err, taskmderrors.ErrValidation)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object: %w", schema.KindConfig, taskmderrors.ErrValidation)
	}
	return obj, nil
}

// defaultRaw returns the default config as a raw map, the base for
// Update merges when no file exists yet.
func defaultRaw() map[string]any {
	return map[string]any{
		"schema":           constants.SchemaVersion,
		"lockTimeoutMs":    constants.DefaultLockTimeoutMs,
		"maxTaskSizeBytes": constants.DefaultMaxTaskSizeBytes,
	}
}

// applyDefaults fills optional fields the file left unset.
func applyDefaults(cfg *domain.Config) {
	if cfg.MaxTitleLength == 0 {
		cfg.MaxTitleLength = constants.DefaultMaxTitleLength
	}
	if cfg.MaxDescriptionLength == 0 {
		cfg.MaxDescriptionLength = constants.DefaultMaxDescriptionLength
	}
	if cfg.TasksDir == "" {
		cfg.TasksDir = constants.DefaultTasksDir
	}
}

// atomicWrite writes data to a file atomically using
// write-then-rename, so a concurrent reader never observes a partial
// file.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write config: %v: %w", err, taskmderrors.ErrFileSystem)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync config: %v: %w", err, taskmderrors.ErrFileSystem)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close config: %v: %w", err, taskmderrors.ErrFileSystem)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename config: %v: %w", err, taskmderrors.ErrFileSystem)
	}
	return nil
}
