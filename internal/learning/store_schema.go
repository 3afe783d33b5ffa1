package learning

// migrate creates the necessary tables and indexes if they don't exist.
func (s *Store) migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1RunSummaries},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return err
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

const migrationV1RunSummaries = `
CREATE TABLE IF NOT EXISTS run_summaries (
	run_id TEXT PRIMARY KEY,
	user_id TEXT,
	category TEXT NOT NULL DEFAULT 'general',
	goal TEXT NOT NULL,
	output TEXT NOT NULL,
	subtasks TEXT NOT NULL,
	lessons TEXT NOT NULL,
	reflection TEXT,
	success_rate REAL NOT NULL DEFAULT 0,
	top_model TEXT NOT NULL DEFAULT 'none',
	is_cacheable INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_summaries_user ON run_summaries(user_id);
CREATE INDEX IF NOT EXISTS idx_run_summaries_category ON run_summaries(category);
CREATE INDEX IF NOT EXISTS idx_run_summaries_created_at ON run_summaries(created_at);
`
