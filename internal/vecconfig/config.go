// Package vecconfig loads JSON configuration for the vector index service:
// which index to serve, where its snapshots live, and the defaults a
// search call uses when a caller doesn't override them. Modeled on the
// teacher's internal/config.ConfigManager — JSON file on disk, defaults
// applied for anything the file omits, guarded by a mutex for safe
// hot-reload while the service is running.
package vecconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// IndexConfig holds the parameters that define and populate a vector
// index at startup.
type IndexConfig struct {
	Dim       int     `json:"dim"`
	Capacity  int     `json:"capacity"`
	Threshold float64 `json:"threshold"`
}

// StorageConfig holds where snapshots are persisted.
type StorageConfig struct {
	DBPath       string `json:"db_path"`
	SnapshotName string `json:"snapshot_name"`
}

// LogConfig holds diagnostic logging configuration. RotationSizeMB is
// stored and loaded with the rest of the file, but internal/diag does not
// read it: its logger rotates at a fixed 100 MB.
type LogConfig struct {
	Dir            string `json:"dir"`
	RotationSizeMB int    `json:"rotation_size_mb"`
}

// Config holds all configuration for the vector index service.
type Config struct {
	Index   IndexConfig   `json:"index"`
	Storage StorageConfig `json:"storage"`
	Log     LogConfig     `json:"log"`
}

// DefaultConfig returns a Config populated with default values, mirroring
// a small, single-purpose index service with no tuning applied.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Dim:       1536,
			Capacity:  0,
			Threshold: 0.5,
		},
		Storage: StorageConfig{
			DBPath:       "vecindex.db",
			SnapshotName: "default",
		},
		Log: LogConfig{
			Dir:            "logs",
			RotationSizeMB: 10,
		},
	}
}

// Manager loads and hot-reloads Config from a JSON file on disk, guarding
// the current value with a mutex for concurrent readers.
type Manager struct {
	mu         sync.RWMutex
	configPath string
	cfg        *Config
}

// NewManager creates a Manager for the JSON config file at configPath,
// without loading it yet — call Load to populate it.
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		cfg:        DefaultConfig(),
	}
}

// Load reads configPath and merges it over the defaults. A missing file
// is not an error: the Manager simply keeps its defaults, matching the
// teacher's "first run has no config file yet" behavior.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("vecconfig: reading %s: %w", m.configPath, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("vecconfig: parsing %s: %w", m.configPath, err)
	}

	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	return nil
}

// Save writes the current config to configPath as indented JSON.
func (m *Manager) Save() error {
	m.mu.RLock()
	cfg := m.cfg
	m.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("vecconfig: marshaling config: %w", err)
	}
	if err := os.WriteFile(m.configPath, data, 0o600); err != nil {
		return fmt.Errorf("vecconfig: writing %s: %w", m.configPath, err)
	}
	return nil
}

// Get returns the current config. The returned pointer must be treated as
// read-only by callers; mutate via Update instead.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Update replaces the current config in memory (without touching disk);
// call Save afterward to persist it.
func (m *Manager) Update(cfg *Config) {
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
}
