package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const credentialsFile = "credentials.json"

// FileStore keeps tokens in a JSON file under the user's home directory.
// It is the CLI's durable storage.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates the credentials directory if needed. An empty dir
// resolves to ~/.telaviv.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(home, ".telaviv")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, credentialsFile)}, nil
}

// Path returns the credentials file location.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tokens, err := f.read()
	if err != nil {
		return "", err
	}
	return tokens[key], nil
}

// Save overwrites a credentials file that no longer parses.
func (f *FileStore) Save(_ context.Context, key, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tokens, err := f.read()
	if errors.Is(err, ErrUnreadableToken) {
		tokens, err = map[string]string{}, nil
	}
	if err != nil {
		return err
	}
	tokens[key] = token
	return f.write(tokens)
}

// Delete removes a credentials file that no longer parses.
func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tokens, err := f.read()
	if errors.Is(err, ErrUnreadableToken) {
		return f.remove()
	}
	if err != nil {
		return err
	}
	if _, ok := tokens[key]; !ok {
		return nil
	}
	delete(tokens, key)
	if len(tokens) == 0 {
		return f.remove()
	}
	return f.write(tokens)
}

func (f *FileStore) remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

func (f *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	tokens := map[string]string{}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w: %v", ErrUnreadableToken, err)
	}
	return tokens, nil
}

func (f *FileStore) write(tokens map[string]string) error {
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	return os.WriteFile(f.path, data, 0o600)
}
