package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// Entry is one successful calculation.
type Entry struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Panel     string          `json:"panel"`
	Input     json.RawMessage `json:"input"`
	Summary   string          `json:"summary"`
}

type Repository interface {
	Record(ctx context.Context, e Entry) (int64, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

type PostgresHistoryRepository struct {
	db *sql.DB
}

func NewPostgresHistoryDB(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

const schema = `CREATE TABLE IF NOT EXISTS calculations (
	id         BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	panel      TEXT NOT NULL,
	input      JSONB NOT NULL,
	summary    TEXT NOT NULL
)`

// InitDB opens and pings the database behind connStr and makes sure the
// history table exists.
func InitDB(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", withSSLMode(connStr))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// withSSLMode requires TLS unless connStr already picks an sslmode. Both URL
// and key=value forms are handled.
func withSSLMode(connStr string) string {
	if strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}

func (r *PostgresHistoryRepository) Record(ctx context.Context, e Entry) (int64, error) {
	var id int64
	query := "INSERT INTO calculations (panel, input, summary) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, e.Panel, []byte(e.Input), e.Summary).Scan(&id)
	return id, err
}

func (r *PostgresHistoryRepository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := "SELECT id, created_at, panel, input, summary FROM calculations ORDER BY id DESC LIMIT $1"
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var input []byte
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Panel, &input, &e.Summary); err != nil {
			return nil, err
		}
		e.Input = input
		out = append(out, e)
	}
	return out, rows.Err()
}

// MemoryRepository keeps the latest max entries in process memory.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []Entry
	next    int64
	max     int
	now     func() time.Time
}

func NewMemoryRepository(max int) *MemoryRepository {
	if max <= 0 {
		max = 100
	}
	return &MemoryRepository{max: max, now: time.Now}
}

func (m *MemoryRepository) Record(_ context.Context, e Entry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	e.ID = m.next
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	m.entries = append(m.entries, e)
	if len(m.entries) > m.max {
		m.entries = m.entries[len(m.entries)-m.max:]
	}
	return e.ID, nil
}

func (m *MemoryRepository) Recent(_ context.Context, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
