package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Store persists one Record per identity plus a lightweight index used for
// enumeration without loading every record. Unreadable or corrupt records
// are treated as absent: GetOrCreate never propagates a parse failure.
type Store interface {
	GetOrCreate(ctx context.Context, identityID string) (*Record, error)
	Save(ctx context.Context, record *Record) error
	Delete(ctx context.Context, identityID string) error
	List(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// IndexEntry is the per-identity index payload.
type IndexEntry struct {
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

const indexFile = "index.json"

// FileStore keeps one JSON file per identity under a directory, with an
// index.json alongside. All writes are atomic: temp file, then rename, so a
// crash mid-write can never leave a half-written record on disk. Record files
// rely on the single-writer-per-identity contract; the shared index is guarded
// by a mutex so distinct identities can save in parallel.
type FileStore struct {
	dir  string
	caps Caps

	indexMu sync.Mutex // serializes index.json read-modify-write
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the directory if needed.
func NewFileStore(dir string, caps Caps) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("memory: create store dir: %w", err)
	}
	return &FileStore{dir: dir, caps: caps}, nil
}

func (s *FileStore) recordPath(identityID string) string {
	return filepath.Join(s.dir, identityID+".json")
}

// GetOrCreate loads the identity's record, or returns a fresh empty one if
// the file is missing or unreadable.
func (s *FileStore) GetOrCreate(_ context.Context, identityID string) (*Record, error) {
	data, err := os.ReadFile(s.recordPath(identityID))
	if err != nil {
		return NewRecordWithCaps(identityID, s.caps), nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil || record.IdentityID == "" {
		// Corrupt on disk. Start over rather than surfacing a parse error.
		return NewRecordWithCaps(identityID, s.caps), nil
	}
	record.init(s.caps)
	return &record, nil
}

// Save writes the record atomically and refreshes the index.
func (s *FileStore) Save(_ context.Context, record *Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: marshal record: %w", err)
	}

	if err := writeAtomic(s.recordPath(record.IdentityID), data); err != nil {
		return fmt.Errorf("memory: write record: %w", err)
	}

	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	index := s.loadIndex()
	index[record.IdentityID] = IndexEntry{CreatedAt: record.CreatedAt, LastActive: record.LastActive}
	return s.saveIndex(index)
}

// Delete removes the record and its index entry. Deleting an absent record
// is not an error.
func (s *FileStore) Delete(_ context.Context, identityID string) error {
	if err := os.Remove(s.recordPath(identityID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("memory: delete record: %w", err)
	}

	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	index := s.loadIndex()
	if _, ok := index[identityID]; ok {
		delete(index, identityID)
		return s.saveIndex(index)
	}
	return nil
}

// List returns all known identity IDs, sorted.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	index := s.loadIndex()
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Count returns the number of identities with records.
func (s *FileStore) Count(_ context.Context) (int, error) {
	return len(s.loadIndex()), nil
}

func (s *FileStore) loadIndex() map[string]IndexEntry {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		return map[string]IndexEntry{}
	}
	index := map[string]IndexEntry{}
	if err := json.Unmarshal(data, &index); err != nil {
		return map[string]IndexEntry{}
	}
	return index
}

// saveIndex rewrites the whole index. Index size is bounded by identity
// count, not message volume, so a full rewrite per save is fine.
func (s *FileStore) saveIndex(index map[string]IndexEntry) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: marshal index: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.dir, indexFile), data); err != nil {
		return fmt.Errorf("memory: write index: %w", err)
	}
	return nil
}

// writeAtomic writes to a uniquely named temp file in the same directory and
// renames it into place. The unique name keeps concurrent writers to different
// paths (and racing writers to the same path) from renaming each other's temp
// files out from under them.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
