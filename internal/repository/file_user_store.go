package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/iliyamo/seat-suggest/internal/model"
)

// fileRecord is the on-disk shape of one user. Keys follow the layout of
// existing db.txt files.
type fileRecord struct {
	FirstName      string `json:"firstname"`
	LastName       string `json:"lastname"`
	Birth          string `json:"birth"`
	Email          string `json:"email"`
	HashedPassword string `json:"hashed_password"`
}

// FileUserStore keeps all users in one JSON object keyed by id. Every
// mutation rewrites the whole file through a temporary file and a rename;
// the mutex makes read-modify-write atomic inside the process.
type FileUserStore struct {
	path string
	mu   sync.Mutex
}

func NewFileUserStore(path string) *FileUserStore { return &FileUserStore{path: path} }

func (s *FileUserStore) load() (map[string]fileRecord, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]fileRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user file: %w", err)
	}
	db := map[string]fileRecord{}
	if len(bytes.TrimSpace(b)) == 0 {
		return db, nil
	}
	if err := json.Unmarshal(b, &db); err != nil {
		return nil, fmt.Errorf("decode user file %s: %w", s.path, err)
	}
	return db, nil
}

func (s *FileUserStore) save(db map[string]fileRecord) error {
	b, err := json.Marshal(db)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".users-*")
	if err != nil {
		return fmt.Errorf("create temp user file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write user file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Create adds u unless its id is already present.
func (s *FileUserStore) Create(ctx context.Context, u model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := strings.TrimSpace(u.ID)
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := db[id]; ok {
		return model.ErrDuplicateIdentity
	}
	db[id] = fileRecord{
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Birth:          u.Birth,
		Email:          id,
		HashedPassword: u.PasswordHash,
	}
	return s.save(db)
}

// GetByID fetches a user by id.
func (s *FileUserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.mu.Lock()
	db, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return model.User{}, err
	}
	id = strings.TrimSpace(id)
	rec, ok := db[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return rec.user(id), nil
}

// List returns every user ordered by id.
func (s *FileUserStore) List(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	db, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(db))
	for id, rec := range db {
		out = append(out, rec.user(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fileRecord) user(id string) model.User {
	return model.User{
		ID:           id,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Birth:        r.Birth,
		PasswordHash: r.HashedPassword,
	}
}
