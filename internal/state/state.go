package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileState records a document that was last seen in canonical form
type FileState struct {
	MTime int64  `json:"mtime"` // UnixNano
	Hash  string `json:"hash"`
	Width int    `json:"width"`
}

// State is the format cache. It is safe for concurrent use.
type State struct {
	mu    sync.Mutex
	Files map[string]*FileState `json:"files"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files: make(map[string]*FileState),
	}
}

// Load reads state from the cache file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse cache %s: %w", path, err)
	}

	if state.Files == nil {
		state.Files = make(map[string]*FileState)
	}

	return state, nil
}

// Save writes state to the cache file
func (s *State) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HashBytes computes the same digest as ComputeHash for in-memory content
func HashBytes(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// HasChanged reports whether path needs formatting at width. It checks
// mtime first for speed, then falls back to the content hash.
func (s *State) HasChanged(path string, width int) (bool, error) {
	s.mu.Lock()
	fileState, exists := s.Files[path]
	s.mu.Unlock()

	if !exists || fileState.Width != width {
		return true, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	if info.ModTime().UnixNano() == fileState.MTime {
		return false, nil
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != fileState.Hash, nil
}

// Update records path as canonical at width. content is what was just
// read from or written to path, so the file is not read again.
func (s *State) Update(path string, width int, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files[path] = &FileState{
		MTime: info.ModTime().UnixNano(),
		Hash:  HashBytes([]byte(content)),
		Width: width,
	}

	return nil
}

// Forget drops path from the cache
func (s *State) Forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Files, path)
}

// Prune forgets every entry whose file no longer exists and returns the
// paths it dropped.
func (s *State) Prune() []string {
	s.mu.Lock()
	paths := make([]string, 0, len(s.Files))
	for path := range s.Files {
		paths = append(paths, path)
	}
	s.mu.Unlock()

	var pruned []string
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			s.Forget(path)
			pruned = append(pruned, path)
		}
	}
	sort.Strings(pruned)
	return pruned
}
