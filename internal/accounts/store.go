package accounts

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"sync"
)

// MemoryStore keeps users in memory, for tests and database-less runs.
type MemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byEmail: make(map[string]User)}
}

func (s *MemoryStore) Create(ctx context.Context, u User) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	s.byEmail[u.Email] = u
	return nil
}

func (s *MemoryStore) ByEmail(ctx context.Context, email string) (User, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[email]
	return u, ok, nil
}

// SQLStore persists users in the catalog database, sharing the handle the
// catalog store opened.
type SQLStore struct {
	db       *sql.DB
	postgres bool
}

func NewSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	s := &SQLStore{db: db, postgres: driver == "postgres"}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  surname TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Create(ctx context.Context, u User) error {
	if _, ok, err := s.ByEmail(ctx, u.Email); err != nil {
		return err
	} else if ok {
		return ErrEmailTaken
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
INSERT INTO users (id, email, name, surname, password_hash, role)
VALUES (?,?,?,?,?,?)`),
		u.ID, u.Email, u.Name, u.Surname, u.PasswordHash, u.Role)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return ErrEmailTaken
	}
	return err
}

func (s *SQLStore) ByEmail(ctx context.Context, email string) (User, bool, error) {
	var u User
	err := s.db.QueryRowContext(ctx, s.rebind(`
SELECT id, email, name, surname, password_hash, role FROM users WHERE email=?`), email).
		Scan(&u.ID, &u.Email, &u.Name, &u.Surname, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}
