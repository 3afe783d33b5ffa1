// Package learning persists redacted run summaries so future runs can
// be analyzed and cached.
package learning

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord is the persisted, redacted form of a run summary.
type RunRecord struct {
	RunID       string
	UserID      string
	Category    string
	Goal        string
	Output      string
	Subtasks    []SubtaskSummary
	Lessons     []string
	Reflection  string
	SuccessRate float64
	TopModel    string
	IsCacheable bool
	CreatedAt   time.Time
}

// SubtaskSummary is the per-subtask slice of a run record. Full
// subtask output is deliberately not stored.
type SubtaskSummary struct {
	ID      int           `json:"id"`
	Title   string        `json:"title"`
	Model   string        `json:"model"`
	Latency time.Duration `json:"latency"`
	Status  string        `json:"status"`
}

// Store provides SQLite-backed storage for run records.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// DefaultDBPath returns the path to the run-summary database under the
// user's data directory.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "deepthink", "runs.db")
}

// NewStore opens (creating if necessary) the run-summary database at
// the given path and applies any pending migrations.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &Store{db: conn, dbPath: dbPath}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Insert persists a run record.
func (s *Store) Insert(rec *RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtasks, err := json.Marshal(rec.Subtasks)
	if err != nil {
		return fmt.Errorf("marshal subtask summaries: %w", err)
	}
	lessons, err := json.Marshal(rec.Lessons)
	if err != nil {
		return fmt.Errorf("marshal lessons: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO run_summaries
			(run_id, user_id, category, goal, output, subtasks, lessons,
			 reflection, success_rate, top_model, is_cacheable, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.RunID, rec.UserID, rec.Category, rec.Goal, rec.Output,
		string(subtasks), string(lessons), rec.Reflection,
		rec.SuccessRate, rec.TopModel, rec.IsCacheable,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run summary: %w", err)
	}
	return nil
}

// Get returns the record for a run ID, or sql.ErrNoRows if absent.
func (s *Store) Get(runID string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT run_id, user_id, category, goal, output, subtasks, lessons,
		       reflection, success_rate, top_model, is_cacheable, created_at
		FROM run_summaries WHERE run_id = ?
	`, runID)
	return scanRecord(row)
}

// ListRecent returns up to limit records, newest first.
func (s *Store) ListRecent(limit int) ([]*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT run_id, user_id, category, goal, output, subtasks, lessons,
		       reflection, success_rate, top_model, is_cacheable, created_at
		FROM run_summaries ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query run summaries: %w", err)
	}
	defer rows.Close()

	var recs []*RunRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*RunRecord, error) {
	var rec RunRecord
	var subtasks, lessons, createdAt string
	err := row.Scan(
		&rec.RunID, &rec.UserID, &rec.Category, &rec.Goal, &rec.Output,
		&subtasks, &lessons, &rec.Reflection,
		&rec.SuccessRate, &rec.TopModel, &rec.IsCacheable, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(subtasks), &rec.Subtasks); err != nil {
		return nil, fmt.Errorf("unmarshal subtask summaries: %w", err)
	}
	if err := json.Unmarshal([]byte(lessons), &rec.Lessons); err != nil {
		return nil, fmt.Errorf("unmarshal lessons: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}
