package tokenstore

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
)

// logPrefix marks token entries in the append-only log.
const logPrefix = "ACCESS_TOKEN="

// LogFile appends every token to a log file and resolves Get to the most
// recently appended value. History is never rewritten; Clear appends an
// entry with an empty value rather than truncating the file.
type LogFile struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*LogFile)(nil)

// NewLogFile creates a store backed by the append-only log at path. The
// file is created on first Set.
func NewLogFile(path string) *LogFile {
	return &LogFile{path: path}
}

func (s *LogFile) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("reading %s: %w", s.path, err)
	}

	// The last ACCESS_TOKEN entry wins; an empty value means cleared.
	var token string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, logPrefix); ok {
			token = rest
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scanning %s: %w", s.path, err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (s *LogFile) Set(token string) error {
	return s.append(token)
}

func (s *LogFile) Clear() error {
	return s.append("")
}

func (s *LogFile) append(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	if _, err := fmt.Fprintf(f, "%s%s\n", logPrefix, token); err != nil {
		f.Close()
		return fmt.Errorf("appending to %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", s.path, err)
	}
	return nil
}
