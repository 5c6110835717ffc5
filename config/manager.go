package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces the environment overrides, e.g. REELHOUSE_TMDB_API_KEY.
const envPrefix = "REELHOUSE_"

// Manager loads and persists Settings. Files ending in .yaml/.yml are YAML, everything else JSON.
type Manager struct {
	fs     afero.Fs
	path   string
	lookup func(string) (string, bool)
	mu     sync.RWMutex
}

// NewManager returns a manager backed by the OS filesystem and process environment.
func NewManager(path string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), path, os.LookupEnv)
}

// NewManagerWithFs allows tests to provide an in-memory filesystem and a fake environment.
func NewManagerWithFs(fs afero.Fs, path string, lookup func(string) (string, bool)) *Manager {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return &Manager{fs: fs, path: path, lookup: lookup}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the settings file, falling back to defaults when it does not exist,
// and applies environment overrides on top.
func (m *Manager) Load() (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings, err := m.read()
	if err != nil {
		return DefaultSettings(), err
	}
	m.applyEnv(&settings)
	return settings, nil
}

// Save writes settings to disk, creating the parent directory when needed.
func (m *Manager) Save(settings Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write(settings)
}

// SaveTokenSecret stores secret in the settings file and leaves every other value as the
// file has it, so environment overrides such as API keys never reach disk.
func (m *Manager) SaveTokenSecret(secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	settings, err := m.read()
	if err != nil {
		return err
	}
	settings.Auth.TokenSecret = secret
	return m.write(settings)
}

func (m *Manager) read() (Settings, error) {
	settings := DefaultSettings()

	data, err := afero.ReadFile(m.fs, m.path)
	switch {
	case err == nil:
		if err := m.decode(data, &settings); err != nil {
			return settings, fmt.Errorf("parse settings %s: %w", m.path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return settings, fmt.Errorf("read settings %s: %w", m.path, err)
	}
	return settings, nil
}

func (m *Manager) write(settings Settings) error {
	if dir := filepath.Dir(m.path); dir != "" && dir != "." {
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	var (
		data []byte
		err  error
	)
	if m.isYAML() {
		data, err = yaml.Marshal(settings)
	} else {
		data, err = json.MarshalIndent(settings, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := afero.WriteFile(m.fs, m.path, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (m *Manager) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(m.path))
	return ext == ".yaml" || ext == ".yml"
}

func (m *Manager) decode(data []byte, settings *Settings) error {
	if m.isYAML() {
		return yaml.Unmarshal(data, settings)
	}
	return json.Unmarshal(data, settings)
}

func (m *Manager) applyEnv(s *Settings) {
	str := func(key string, dst *string) {
		if v, ok := m.lookup(envPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		if v, ok := m.lookup(envPrefix + key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}

	str("HOST", &s.Server.Host)
	num("PORT", &s.Server.Port)
	str("STORAGE_DRIVER", &s.Storage.Driver)
	str("SQLITE_PATH", &s.Storage.SQLitePath)
	str("MONGO_URI", &s.Storage.MongoURI)
	str("MONGO_DATABASE", &s.Storage.MongoDatabase)
	str("TOKEN_SECRET", &s.Auth.TokenSecret)
	num("TOKEN_TTL_HOURS", &s.Auth.TokenTTLHours)
	str("TMDB_API_KEY", &s.Metadata.TMDBAPIKey)
	str("TMDB_BASE_URL", &s.Metadata.TMDBBaseURL)
	str("OMDB_API_KEY", &s.Metadata.OMDBAPIKey)
	str("LOG_FILE", &s.Logging.File)
}
