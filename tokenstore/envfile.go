package tokenstore

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// envKey is the dotenv key holding the current access token.
const envKey = "KITE_ACCESS_TOKEN"

// EnvFile stores the token as a single KITE_ACCESS_TOKEN entry in a
// dotenv-style file, overwriting the previous value on every Set. Other
// keys in the file are preserved.
type EnvFile struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*EnvFile)(nil)

// NewEnvFile creates a store backed by the dotenv file at path. The file is
// created on first Set.
func NewEnvFile(path string) *EnvFile {
	return &EnvFile{path: path}
}

func (s *EnvFile) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vars, err := godotenv.Read(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("reading %s: %w", s.path, err)
	}
	token := vars[envKey]
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (s *EnvFile) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vars, err := godotenv.Read(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	if vars == nil {
		vars = make(map[string]string)
	}
	vars[envKey] = token
	if err := godotenv.Write(vars, s.path); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

func (s *EnvFile) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vars, err := godotenv.Read(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	if _, ok := vars[envKey]; !ok {
		return nil
	}
	delete(vars, envKey)
	if err := godotenv.Write(vars, s.path); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
