package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Scene objects table - the persisted interactable scene
		`CREATE TABLE IF NOT EXISTS scene_objects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			pos_x REAL NOT NULL,
			pos_y REAL NOT NULL,
			pos_z REAL NOT NULL,
			normal_x REAL NOT NULL,
			normal_y REAL NOT NULL,
			normal_z REAL NOT NULL,
			width REAL NOT NULL,
			height REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Feedback bindings table - at most one plugin binding per event
		`CREATE TABLE IF NOT EXISTS feedback_bindings (
			id TEXT PRIMARY KEY,
			event TEXT NOT NULL UNIQUE CHECK(event IN ('grab', 'release', 'zoom_in', 'zoom_out')),
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Gesture log table - recent discrete gesture events for review
		`CREATE TABLE IF NOT EXISTS gesture_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event TEXT NOT NULL,
			label TEXT NOT NULL,
			object_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_gesture_log_created_at ON gesture_log(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
