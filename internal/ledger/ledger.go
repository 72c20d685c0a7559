// Package ledger records the ids produced by each build in a SQLite
// database and reports how they changed between builds of a tree.
//
// Ids are derived from names and locations, so a build that changes no
// entries produces the same set of ids. The ledger makes renames and
// relocations visible as removed/added pairs.
package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - no database
// 1 - runs and run_ids
const currentSchemaVersion = 1

var (
	// ErrNoRuns is returned when a tree has no recorded run.
	ErrNoRuns = errors.New("no recorded runs")

	// ErrUnknownRun is returned for a run id the tree does not have.
	ErrUnknownRun = errors.New("unknown run")
)

// Ledger is an open ledger database.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Snapshot is one id as recorded by a run.
type Snapshot struct {
	ID          string `json:"id"`
	Path        string `json:"path"`
	DisplayName string `json:"displayName"`
}

// Run describes a recorded build.
type Run struct {
	ID        string    `json:"id"`
	Tree      string    `json:"tree"`
	CreatedAt time.Time `json:"createdAt"`
	Entries   int       `json:"entries"`
}

// Diff lists the ids that appeared and disappeared between two runs of a
// tree. From is empty when To is the first run.
type Diff struct {
	Tree    string     `json:"tree"`
	From    string     `json:"from,omitempty"`
	To      string     `json:"to"`
	Added   []Snapshot `json:"added"`
	Removed []Snapshot `json:"removed"`
}

// Open creates or opens the ledger at path and applies migrations.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Ledger{db: db, now: time.Now}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record stores the ids of one build of tree under a new run id.
func (l *Ledger) Record(ctx context.Context, tree string, snapshots []Snapshot) (Run, error) {
	run := Run{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Tree:      tree,
		CreatedAt: l.now().UTC(),
		Entries:   len(snapshots),
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, tree, created_at, entries)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Tree, run.CreatedAt.Format(time.RFC3339Nano), run.Entries); err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_ids (run_id, id, path, display_name)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	defer stmt.Close()

	for _, s := range snapshots {
		if _, err := stmt.ExecContext(ctx, run.ID, s.ID, s.Path, s.DisplayName); err != nil {
			return Run{}, fmt.Errorf("record id %q: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// Runs returns the runs of tree, newest first.
func (l *Ledger) Runs(ctx context.Context, tree string) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, tree, created_at, entries
		FROM runs
		WHERE tree = ?
		ORDER BY seq DESC
	`, tree)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Tree, &created, &r.Entries); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("run %s: bad created_at: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Latest diffs the newest run of tree against the run before it.
func (l *Ledger) Latest(ctx context.Context, tree string) (Diff, error) {
	runs, err := l.Runs(ctx, tree)
	if err != nil {
		return Diff{}, err
	}
	if len(runs) == 0 {
		return Diff{}, fmt.Errorf("tree %q: %w", tree, ErrNoRuns)
	}

	from := ""
	if len(runs) > 1 {
		from = runs[1].ID
	}
	return l.Diff(ctx, tree, from, runs[0].ID)
}

// Diff compares two runs. An empty from compares against nothing, so every
// id of to is added.
func (l *Ledger) Diff(ctx context.Context, tree, from, to string) (Diff, error) {
	for _, id := range []string{from, to} {
		if id == "" {
			continue
		}
		var n int
		if err := l.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM runs WHERE id = ? AND tree = ?", id, tree,
		).Scan(&n); err != nil {
			return Diff{}, fmt.Errorf("diff runs: %w", err)
		}
		if n == 0 {
			return Diff{}, fmt.Errorf("run %q of tree %q: %w", id, tree, ErrUnknownRun)
		}
	}

	d := Diff{Tree: tree, From: from, To: to}
	var err error
	if d.Added, err = l.only(ctx, to, from); err != nil {
		return Diff{}, err
	}
	if d.Removed, err = l.only(ctx, from, to); err != nil {
		return Diff{}, err
	}
	return d, nil
}

// only returns the ids of run a that run b does not have, ordered by id.
func (l *Ledger) only(ctx context.Context, a, b string) ([]Snapshot, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, path, display_name
		FROM run_ids
		WHERE run_id = ?
		  AND id NOT IN (SELECT id FROM run_ids WHERE run_id = ?)
		ORDER BY id
	`, a, b)
	if err != nil {
		return nil, fmt.Errorf("diff runs: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Path, &s.DisplayName); err != nil {
			return nil, fmt.Errorf("diff runs: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates the tables and runs migrations. It is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
