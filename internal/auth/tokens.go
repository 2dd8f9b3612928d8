package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/project57/simrai/internal/shared"
)

// TokenStore persists credentials in isolated per-user partitions.
//
// Operations on the same user are serialized; operations on different users
// never block one another. A reader can never observe a partially written
// record.
type TokenStore interface {
	// Save writes the record for userID, replacing any prior record.
	Save(userID string, creds *Credentials) error

	// Load returns the stored record, or [shared.ErrCredentialsNotFound].
	Load(userID string) (*Credentials, error)

	// Delete removes the partition. Idempotent.
	Delete(userID string) error

	// Update runs fn with the user's partition lock held, passing the
	// current record. If fn returns non-nil credentials they are persisted
	// before the lock is released; returning nil credentials leaves the
	// partition untouched. Returns [shared.ErrCredentialsNotFound] if no
	// record exists.
	//
	// This is the serialization point for refresh-before-use: the lock is
	// deliberately held across fn so concurrent refreshes for one user
	// collapse into a single provider call.
	Update(userID string, fn func(*Credentials) (*Credentials, error)) error
}

// FileTokenStore stores one JSON file per sanitized user identity under a
// base directory. Writes go through a scoped temp file and an atomic rename.
type FileTokenStore struct {
	dir    string
	logger *log.Logger

	mu    sync.Mutex // guards locks map only
	locks map[string]*sync.Mutex
}

var _ TokenStore = (*FileTokenStore)(nil)

// NewFileTokenStore creates the base directory if needed and returns a store
// rooted there.
func NewFileTokenStore(dir string, logger *log.Logger) (*FileTokenStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty token directory", shared.ErrInvalidConfig)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating token directory: %v", shared.ErrStorageFailure, err)
	}

	return &FileTokenStore{
		dir:    dir,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// SanitizeUserID maps a raw provider user ID onto a storage-safe key.
//
// The encoding is injective: bytes outside [A-Za-z0-9-] (including the
// escape marker itself) become "_XX" hex escapes, so two distinct raw IDs
// can never collide after sanitization and no path separator survives.
// Empty IDs are rejected.
func SanitizeUserID(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: empty user id", shared.ErrInvalidUserID)
	}

	var b strings.Builder
	for i := 0; i < len(userID); i++ {
		c := userID[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02X", c)
		}
	}
	return b.String(), nil
}

// partitionLock returns the mutex serializing one sanitized partition.
func (s *FileTokenStore) partitionLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *FileTokenStore) partitionPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Save writes the record for userID with an atomic temp-file-then-rename
// swap, replacing any prior record.
func (s *FileTokenStore) Save(userID string, creds *Credentials) error {
	key, err := SanitizeUserID(userID)
	if err != nil {
		return err
	}
	if creds == nil {
		return fmt.Errorf("%w: nil credentials", shared.ErrInvalidInput)
	}

	lock := s.partitionLock(key)
	lock.Lock()
	defer lock.Unlock()

	return s.writeLocked(key, creds)
}

// writeLocked persists a record. Caller holds the partition lock.
func (s *FileTokenStore) writeLocked(key string, creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding credentials: %v", shared.ErrStorageFailure, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", shared.ErrStorageFailure, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing credentials: %v", shared.ErrStorageFailure, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: setting file mode: %v", shared.ErrStorageFailure, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", shared.ErrStorageFailure, err)
	}

	if err := os.Rename(tmpName, s.partitionPath(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: committing credentials: %v", shared.ErrStorageFailure, err)
	}

	return nil
}

// Load returns the stored record for userID.
func (s *FileTokenStore) Load(userID string) (*Credentials, error) {
	key, err := SanitizeUserID(userID)
	if err != nil {
		return nil, err
	}

	lock := s.partitionLock(key)
	lock.Lock()
	defer lock.Unlock()

	return s.readLocked(key)
}

// readLocked reads a record. Caller holds the partition lock.
func (s *FileTokenStore) readLocked(key string) (*Credentials, error) {
	data, err := os.ReadFile(s.partitionPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.ErrCredentialsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading credentials: %v", shared.ErrStorageFailure, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: decoding credentials: %v", shared.ErrStorageFailure, err)
	}

	return &creds, nil
}

// Delete removes the partition for userID. No error if already absent.
func (s *FileTokenStore) Delete(userID string) error {
	key, err := SanitizeUserID(userID)
	if err != nil {
		return err
	}

	lock := s.partitionLock(key)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(s.partitionPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: deleting credentials: %v", shared.ErrStorageFailure, err)
	}

	return nil
}

// Update implements the read-modify-write described on [TokenStore].
func (s *FileTokenStore) Update(userID string, fn func(*Credentials) (*Credentials, error)) error {
	key, err := SanitizeUserID(userID)
	if err != nil {
		return err
	}

	lock := s.partitionLock(key)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.readLocked(key)
	if err != nil {
		return err
	}

	updated, err := fn(current)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}

	return s.writeLocked(key, updated)
}
