// Package migration applies embedded, versioned SQL files to a database
// and tracks the applied version in a schema_version table.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Dialect describes the SQL differences the runner cares about.
type Dialect struct {
	Name string
	// Placeholder returns the bind parameter for the n-th (1-based) argument.
	Placeholder func(n int) string
}

var (
	// SQLite uses positional "?" parameters.
	SQLite = Dialect{Name: "sqlite", Placeholder: func(int) string { return "?" }}
	// Postgres uses numbered "$n" parameters.
	Postgres = Dialect{Name: "postgres", Placeholder: func(n int) string { return "$" + strconv.Itoa(n) }}
)

// ErrSchemaTooNew is returned when the database was migrated by a newer build.
var ErrSchemaTooNew = errors.New("database schema is newer than this build supports")

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner manages database schema migrations
type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect Dialect
}

// NewRunner creates a runner reading NNN_name.sql files from the root of migrationFS.
func NewRunner(db *sql.DB, migrationFS fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, fs: migrationFS, dialect: dialect}
}

func (r *Runner) ensureVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

// CurrentVersion returns the applied schema version, 0 for a fresh database.
func (r *Runner) CurrentVersion() (int, error) {
	if err := r.ensureVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// Migrations reads and orders the migration files.
func (r *Runner) Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m, err := r.load(e.Name())
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}
	return migrations, nil
}

func (r *Runner) load(name string) (Migration, error) {
	prefix, rest, ok := strings.Cut(name, "_")
	if !ok {
		return Migration{}, fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version < 1 {
		return Migration{}, fmt.Errorf("invalid version number in filename %s", name)
	}
	content, err := fs.ReadFile(r.fs, name)
	if err != nil {
		return Migration{}, fmt.Errorf("failed to read migration file %s: %w", name, err)
	}
	return Migration{
		Version: version,
		Name:    strings.TrimSuffix(rest, ".sql"),
		SQL:     string(content),
	}, nil
}

// LatestVersion returns the highest available migration version.
func (r *Runner) LatestVersion() (int, error) {
	migrations, err := r.Migrations()
	if err != nil || len(migrations) == 0 {
		return 0, err
	}
	return migrations[len(migrations)-1].Version, nil
}

// Pending returns the migrations newer than the applied version.
func (r *Runner) Pending() ([]Migration, error) {
	current, err := r.CurrentVersion()
	if err != nil {
		return nil, err
	}
	migrations, err := r.Migrations()
	if err != nil {
		return nil, err
	}
	if n := len(migrations); n > 0 && current > migrations[n-1].Version {
		return nil, fmt.Errorf("%w (database %d, supported %d)", ErrSchemaTooNew, current, migrations[n-1].Version)
	}

	var pending []Migration
	for _, m := range migrations {
		if m.Version > current {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Apply runs every pending migration, each in its own transaction, and
// returns how many were applied.
func (r *Runner) Apply(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	pending, err := r.Pending()
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	start := time.Now()
	for i, m := range pending {
		logFn(fmt.Sprintf("Applying migration %d: %s", m.Version, m.Name))
		if err := r.applyOne(m); err != nil {
			return i, err
		}
	}
	logFn(fmt.Sprintf("Applied %d migration(s) in %v", len(pending), time.Since(start).Round(time.Millisecond)))
	return len(pending), nil
}

func (r *Runner) applyOne(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear version in migration %d: %w", m.Version, err)
	}
	insert := "INSERT INTO schema_version (version) VALUES (" + r.dialect.Placeholder(1) + ")"
	if _, err := tx.Exec(insert, m.Version); err != nil {
		return fmt.Errorf("failed to set version in migration %d: %w", m.Version, err)
	}
	return tx.Commit()
}

// Validate checks that the database is not newer than this build.
func (r *Runner) Validate() error {
	_, err := r.Pending()
	return err
}
