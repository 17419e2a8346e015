// Package fields resolves table column names to Tana field definitions,
// minting new definitions on first use and remembering their ids.
package fields

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

// Store persists field ids keyed by normalized field name.
type Store interface {
	Get(name string) (id string, ok bool, err error)
	Put(name, id string) error
}

var keyReplacer = strings.NewReplacer(":", "", "=", "")

// Normalize turns a field name into its store key: the punctuation that
// cannot appear in a key is stripped, and keys are trimmed and lower case, so
// "Owner::" and "owner" name the same field.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(keyReplacer.Replace(name)))
}

// MemoryStore is a Store kept in memory.
type MemoryStore struct {
	mu  sync.Mutex
	ids map[string]string
}

// NewMemoryStore returns a store seeded with ids.
func NewMemoryStore(ids map[string]string) *MemoryStore {
	s := &MemoryStore{ids: make(map[string]string, len(ids))}
	for name, id := range ids {
		s.ids[Normalize(name)] = id
	}
	return s
}

func (s *MemoryStore) Get(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.ids[Normalize(name)]
	return id, ok, nil
}

func (s *MemoryStore) Put(name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[Normalize(name)] = id
	return nil
}

// FileStore keeps the name to id table in a YAML file. The file is read on
// every lookup and rewritten on every Put so concurrent runs see each
// other's fields.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.load()
	if err != nil {
		return "", false, err
	}
	id, ok := ids[Normalize(name)]
	return id, ok, nil
}

func (s *FileStore) Put(name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.load()
	if err != nil {
		return err
	}
	ids[Normalize(name)] = id

	data, err := yaml.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal field store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create field store directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write field store: %w", err)
	}
	return nil
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read field store: %w", err)
	}

	ids := map[string]string{}
	if err := yaml.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse field store %s: %w", s.path, err)
	}
	return ids, nil
}
