// Package profilestore keeps price profiles as JSON files on disk, one file
// per profile plus an index that records insertion order.
package profilestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/javajack/xloffer"
)

const indexFile = "profiles.index.json"

// FileStore stores profiles under a directory. It is safe for concurrent use
// within one process.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewFileStore opens (creating if needed) a profile directory.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir %q: %w", dir, err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// NewID returns a new profile id: a UUID as 32 hex characters.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// List returns all profiles in the order they were first saved. Index
// entries whose file has gone missing are skipped.
func (s *FileStore) List() ([]*xloffer.PriceProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	profiles := make([]*xloffer.PriceProfile, 0, len(ids))
	for _, id := range ids {
		p, err := s.read(id)
		if errors.Is(err, xloffer.ErrProfileNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Get returns one profile; a missing id yields an error matching
// xloffer.ErrProfileNotFound.
func (s *FileStore) Get(id string) (*xloffer.PriceProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

// Save writes p, assigning an id when it has none and stamping UpdatedAt.
func (s *FileStore) Save(p *xloffer.PriceProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(p)
}

// Clone copies the prices of sourceID into a new profile called name.
func (s *FileStore) Clone(sourceID, name string) (*xloffer.PriceProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.read(sourceID)
	if err != nil {
		return nil, err
	}
	clone := &xloffer.PriceProfile{
		Name:   name,
		Prices: slices.Clone(src.Prices),
	}
	if err := s.save(clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// Delete removes a profile and its index entry. Unknown ids are ignored.
func (s *FileStore) Delete(id string) error {
	if !validID(id) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete profile %q: %w", id, err)
	}
	ids, err := s.readIndex()
	if err != nil {
		return err
	}
	if i := slices.Index(ids, id); i >= 0 {
		return s.writeIndex(slices.Delete(ids, i, i+1))
	}
	return nil
}

// Import validates a JSON profile document and saves it. An id in the
// document is kept, so importing an exported profile overwrites it.
func (s *FileStore) Import(r io.Reader) (*xloffer.PriceProfile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}
	var p xloffer.PriceProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if p.ID != "" && !validID(p.ID) {
		return nil, fmt.Errorf("invalid profile id %q", p.ID)
	}
	if err := s.Save(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *FileStore) save(p *xloffer.PriceProfile) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if !validID(p.ID) {
		return fmt.Errorf("invalid profile id %q", p.ID)
	}
	p.UpdatedAt = s.now().UTC()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile %q: %w", p.ID, err)
	}
	if err := writeFileAtomic(s.path(p.ID), data); err != nil {
		return fmt.Errorf("write profile %q: %w", p.ID, err)
	}

	ids, err := s.readIndex()
	if err != nil {
		return err
	}
	if !slices.Contains(ids, p.ID) {
		return s.writeIndex(append(ids, p.ID))
	}
	return nil
}

func (s *FileStore) read(id string) (*xloffer.PriceProfile, error) {
	if !validID(id) {
		return nil, fmt.Errorf("profile %q: %w", id, xloffer.ErrProfileNotFound)
	}
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("profile %q: %w", id, xloffer.ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read profile %q: %w", id, err)
	}
	var p xloffer.PriceProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %q: %w", id, err)
	}
	return &p, nil
}

func (s *FileStore) readIndex() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile index: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode profile index: %w", err)
	}
	return ids, nil
}

func (s *FileStore) writeIndex(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(s.dir, indexFile), data); err != nil {
		return fmt.Errorf("write profile index: %w", err)
	}
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// validID keeps ids usable as file names.
func validID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
