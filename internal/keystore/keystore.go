// Package keystore persists project and access-key metadata between CLI
// invocations. It is a small opaque read/write store; the cloud account
// remains the source of truth for resources, the keystore only remembers
// what the operator last worked with.
package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/outfleet/outfleet/internal/constants"
)

// ServerKey is the access metadata of one provisioned relay.
type ServerKey struct {
	ServerID   string `yaml:"server_id"`
	ServerName string `yaml:"server_name"`
	ProjectID  string `yaml:"project_id"`
	Zone       string `yaml:"zone"`
	IP         string `yaml:"ip,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
}

// Data is the full persisted document.
type Data struct {
	ActiveProject string      `yaml:"active_project,omitempty"`
	Keys          []ServerKey `yaml:"keys,omitempty"`
}

// Store is a YAML-file-backed keystore. Safe for concurrent use within one
// process; no cross-process locking.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// NewDefault creates a store at the standard per-user location.
func NewDefault(homeDir string) *Store {
	return New(filepath.Join(constants.ConfigDirPath(homeDir), constants.KeystoreFileName))
}

// Read loads the persisted document. A missing file yields an empty
// document, not an error.
func (s *Store) Read() (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Write replaces the persisted document atomically (write temp, rename).
func (s *Store) Write(data *Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(data)
}

// PutKey inserts or replaces the key for a server, matched by server id.
func (s *Store) PutKey(key ServerKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range data.Keys {
		if existing.ServerID == key.ServerID {
			data.Keys[i] = key
			replaced = true
			break
		}
	}
	if !replaced {
		data.Keys = append(data.Keys, key)
	}

	return s.write(data)
}

// SetActiveProject remembers the project subsequent commands default to.
func (s *Store) SetActiveProject(projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	data.ActiveProject = projectID
	return s.write(data)
}

func (s *Store) read() (*Data, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Data{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading keystore: %w", err)
	}

	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("error parsing keystore: %w", err)
	}
	return &data, nil
}

func (s *Store) write(data *Data) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("error encoding keystore: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), constants.ConfigDirPermissions); err != nil {
		return fmt.Errorf("error creating keystore directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, constants.ConfigFilePermissions); err != nil {
		return fmt.Errorf("error writing keystore: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("error replacing keystore: %w", err)
	}
	return nil
}
