package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

// Only the up migrations are embedded; the .down.sql files next to
// them are manual rollback scripts and never run automatically.
//
//go:embed *.up.sql
var migrationsFS embed.FS

// migration is a single versioned schema step
type migration struct {
	version int
	sql     string
}

// RunMigrations applies every schema step not yet recorded in the
// migrations table, in version order. Each step runs in its own
// transaction together with its bookkeeping row.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	pending, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	for _, m := range pending {
		if applied[m.version] {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
	}

	return nil
}

func loadMigrations() ([]migration, error) {
	entries, err := migrationsFS.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var pending []migration
	for _, entry := range entries {
		version := extractVersion(entry.Name())
		if version == 0 {
			continue
		}

		stmt, err := migrationsFS.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}

		pending = append(pending, migration{version: version, sql: string(stmt)})
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].version < pending[j].version
	})

	return pending, nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(m.sql); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.Exec("INSERT INTO migrations (version) VALUES (?)", m.version); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// extractVersion parses the numeric prefix of a migration filename,
// e.g. "000001_init.up.sql" -> 1. Zero means not a migration file.
func extractVersion(filename string) int {
	if !strings.HasSuffix(filename, ".up.sql") {
		return 0
	}
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
