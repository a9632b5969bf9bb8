package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileStore is a param.Store persisted to a single file. Every SetValue
// rewrites the file.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenFileStore loads the store at path. A missing file yields an empty store
// that is created on the first write.
func OpenFileStore(path string) (*FileStore, error) {
	if _, err := marshalerFor(path); err != nil {
		return nil, err
	}
	s := &FileStore{path: path, values: map[string]string{}}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return s, nil
	}
	if err := unmarshal(path, b, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s, nil
}

// Path returns the settings file path.
func (s *FileStore) Path() string { return s.path }

// Value returns the stored value for key.
func (s *FileStore) Value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// SetValue stores value under key and flushes the file.
func (s *FileStore) SetValue(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

// Keys returns the stored keys in sorted order.
func (s *FileStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *FileStore) flush() error {
	marshal, err := marshalerFor(s.path)
	if err != nil {
		return err
	}
	b, err := marshal(s.values)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings folder: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func marshalerFor(path string) (func(v interface{}) ([]byte, error), error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return toml.Marshal, nil
	case ".yaml", ".yml":
		return yaml.Marshal, nil
	case ".json":
		return func(v interface{}) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }, nil
	default:
		return nil, fmt.Errorf("unsupported settings extension: %q", ext)
	}
}

func unmarshal(path string, b []byte, v interface{}) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(b, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, v)
	default:
		return json.Unmarshal(b, v)
	}
}
