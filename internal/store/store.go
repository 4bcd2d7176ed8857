// Package store persists resources between runs. resources.jsonl in the
// data directory is the source of truth; SQLite serves as the query index and
// is rebuilt from the JSONL file on every Attach.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/larder/internal/library"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// dbFile is the SQLite index inside DataDir.
const dbFile = "larder.db"

// Entry describes a stored resource without decoding it.
type Entry struct {
	ID        string
	Name      string
	Type      string
	Format    types.Format
	CreatedAt time.Time
}

// Store keeps serialized resources. Resources are decoded with the factories
// of the library given to New.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	lib      *library.Library
	seq      int64
}

// New creates a detached store; call Attach before use.
func New(lib *library.Library) *Store {
	return &Store{lib: lib}
}

// Attach opens the store in config.DataDir, creating the directory if
// needed, and loads resources.jsonl into a fresh SQLite index.
// Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The index is derived state; start from an empty database.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	records, err := readJSONL(filepath.Join(dataDir, resourcesFile))
	if err != nil {
		db.Close()
		return err
	}
	seq, err := loadRecords(db, records)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	s.db = db
	s.config = config
	s.config.DataDir = dataDir
	s.seq = seq
	s.attached = true
	Logger().Debug("store attached", zap.String("dir", dataDir), zap.Int("resources", len(records)))
	return nil
}

// Detach closes the index. Detach is idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	s.attached = false
	return nil
}

// Put serializes r and stores it under a new ID.
func (s *Store) Put(r types.Resource) (string, error) {
	format, data, err := library.Encode(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return "", types.ErrStoreDetached
	}

	rec := record{
		ResourceID: generateUUID(),
		Name:       r.Name(),
		Type:       r.Type(),
		Format:     string(format),
		Data:       string(data),
		Seq:        s.seq + 1,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := insertRecord(s.db, rec); err != nil {
		return "", err
	}
	s.seq = rec.Seq
	if err := s.persistLocked(); err != nil {
		return "", err
	}
	Logger().Debug("stored resource", zap.String("id", rec.ResourceID), zap.String("type", rec.Type), zap.String("name", rec.Name))
	return rec.ResourceID, nil
}

// Get decodes the resource stored under id.
// Returns ErrNotFound if no resource has that ID.
func (s *Store) Get(id string) (types.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	row := s.db.QueryRow("SELECT "+resourceColumns+" FROM resources WHERE resource_id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: resource %s", types.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return s.decode(rec)
}

// Delete removes the resource stored under id.
// Returns ErrNotFound if no resource has that ID.
func (s *Store) Delete(id string) error {
	return s.deleteWhere("resource_id = ?", id)
}

// Remove deletes every stored resource of type tag named name.
// Returns ErrNotFound if nothing matched.
func (s *Store) Remove(tag, name string) error {
	return s.deleteWhere("type = ? AND name = ?", tag, name)
}

func (s *Store) deleteWhere(where string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}

	res, err := s.db.Exec("DELETE FROM resources WHERE "+where, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: no stored resource matches %v", types.ErrNotFound, args)
	}
	return s.persistLocked()
}

// Entries lists stored resources of type tag in insertion order. An empty
// tag lists every resource.
func (s *Store) Entries(tag string) ([]Entry, error) {
	records, err := s.records(tag)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(records))
	for i, rec := range records {
		created, _ := time.Parse(time.RFC3339Nano, rec.CreatedAt)
		out[i] = Entry{
			ID:        rec.ResourceID,
			Name:      rec.Name,
			Type:      rec.Type,
			Format:    types.Format(rec.Format),
			CreatedAt: created,
		}
	}
	return out, nil
}

// Fetch decodes every stored resource of type tag in insertion order. An
// empty tag fetches every resource.
func (s *Store) Fetch(tag string) ([]types.Resource, error) {
	records, err := s.records(tag)
	if err != nil {
		return nil, err
	}
	out := make([]types.Resource, 0, len(records))
	for _, rec := range records {
		r, err := s.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// LoadInto adds every stored resource to lib's working set and returns the
// number added.
func (s *Store) LoadInto(lib *library.Library) (int, error) {
	rs, err := s.Fetch("")
	if err != nil {
		return 0, err
	}
	for i, r := range rs {
		if err := lib.Add(r); err != nil {
			return i, err
		}
	}
	return len(rs), nil
}

// SaveLibrary stores every resource in lib's working set and returns the
// number stored.
func (s *Store) SaveLibrary(lib *library.Library) (int, error) {
	all := lib.All()
	for i, r := range all {
		if _, err := s.Put(r); err != nil {
			return i, err
		}
	}
	return len(all), nil
}

func (s *Store) records(tag string) ([]record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	query := "SELECT " + resourceColumns + " FROM resources"
	var args []any
	if tag != "" {
		query += " WHERE type = ?"
		args = append(args, tag)
	}
	query += " ORDER BY seq"
	return queryRecords(s.db, query, args...)
}

func (s *Store) decode(rec record) (types.Resource, error) {
	return s.lib.Decode(rec.Type, rec.Name, types.Format(rec.Format), []byte(rec.Data))
}

// persistLocked rewrites resources.jsonl from the index.
// The caller must hold s.mu write lock.
func (s *Store) persistLocked() error {
	records, err := queryRecords(s.db, "SELECT "+resourceColumns+" FROM resources ORDER BY seq")
	if err != nil {
		return err
	}
	return writeJSONL(filepath.Join(s.config.DataDir, resourcesFile), records)
}

// generateUUID generates a new UUID v7 for resource IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
