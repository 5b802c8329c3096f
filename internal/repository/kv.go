package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
)

var ErrKeyNotFound = errors.New("key not found")

// KVStore is the persistence primitive every record goes through. Values are
// JSON documents; GetByPrefix is the only way to enumerate a kind of record.
type KVStore interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value any) error
	GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error)
}

type sqlKVStore struct {
	db *sqlx.DB
}

// NewSQLKVStore returns a KVStore backed by the kv_store table.
func NewSQLKVStore(db *sqlx.DB) KVStore {
	return &sqlKVStore{db: db}
}

func (s *sqlKVStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv_store WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return json.RawMessage(value), nil
}

func (s *sqlKVStore) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv encode %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, string(b))
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (s *sqlKVStore) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT key, value FROM kv_store WHERE key LIKE $1 ESCAPE '\'`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("kv scan %q: %w", prefix, err)
	}

	values := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		// sqlite LIKE ignores ASCII case
		if !strings.HasPrefix(row.Key, prefix) {
			continue
		}
		values = append(values, json.RawMessage(row.Value))
	}
	return values, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type memoryKVStore struct {
	mu     sync.RWMutex
	keys   []string
	values map[string][]byte
}

// NewMemoryKVStore returns a process-local KVStore. Enumeration follows
// insertion order.
func NewMemoryKVStore() KVStore {
	return &memoryKVStore{values: make(map[string][]byte)}
}

func (s *memoryKVStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return json.RawMessage(append([]byte(nil), v...)), nil
}

func (s *memoryKVStore) Set(_ context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv encode %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = b
	return nil
}

func (s *memoryKVStore) GetByPrefix(_ context.Context, prefix string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []json.RawMessage
	for _, k := range s.keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, json.RawMessage(append([]byte(nil), s.values[k]...)))
		}
	}
	return out, nil
}
