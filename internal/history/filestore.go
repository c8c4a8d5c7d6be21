package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// FileStore persists attempts as append-only JSON lines in a local file.
// Suitable for single-machine use and development; production deployments
// should use the postgres subpackage. Safe for concurrent use.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore that writes to the given path.
// The file is created on first save if it does not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// SaveAttempt implements [Store] by appending a JSON line to the file.
func (fs *FileStore) SaveAttempt(_ context.Context, a Attempt) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("history: marshal attempt: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(fs.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("history: open file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("history: write attempt: %w", err)
	}
	return nil
}

// ListAttempts implements [Store] by scanning the whole file. The file order
// is the append order, which is chronological.
func (fs *FileStore) ListAttempts(_ context.Context, sessionID string) ([]Attempt, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("history: open file: %w", err)
	}
	defer f.Close()

	var attempts []Attempt
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var a Attempt
		if err := json.Unmarshal(line, &a); err != nil {
			return nil, fmt.Errorf("history: corrupt record: %w", err)
		}
		if a.SessionID == sessionID {
			attempts = append(attempts, a)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("history: scan file: %w", err)
	}

	if len(attempts) == 0 {
		return nil, ErrNotFound
	}
	return attempts, nil
}

// SessionStats implements [Store].
func (fs *FileStore) SessionStats(ctx context.Context, sessionID string) (Stats, error) {
	attempts, err := fs.ListAttempts(ctx, sessionID)
	if err != nil {
		return Stats{}, err
	}
	return Aggregate(attempts), nil
}
