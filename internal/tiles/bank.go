// apps/go-server/internal/tiles/bank.go
//
// SQLite problem bank.
// Responsibilities:
//   - Opening the SQLite file with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Seeding problems and serving random per-category selections.

package tiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mathdominoes/apps/go-server/assets"
	"github.com/robalobadob/mathdominoes/apps/go-server/internal/game"
)

// Bank serves games from the problems table.
type Bank struct {
	db      *sql.DB
	PerGame int
	NewRand func() game.Shuffler
}

// OpenBank opens (creating if needed) the SQLite file at path and migrates it.
func OpenBank(path string) (*Bank, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Bank{db: db}, nil
}

// Close releases the database handle.
func (b *Bank) Close() error { return b.db.Close() }

// Seed inserts problems, skipping ones already present. It returns how many rows were added.
func (b *Bank) Seed(ctx context.Context, sets map[Category][]Problem) (int, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO problems (category, problem, solution) VALUES (?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for c, problems := range sets {
		for _, p := range problems {
			res, err := stmt.ExecContext(ctx, string(c), p.Problem, p.Solution)
			if err != nil {
				return 0, fmt.Errorf("seed %s %q: %w", c, p.Problem, err)
			}
			n, _ := res.RowsAffected()
			added += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// Count returns how many problems the bank holds for c.
func (b *Bank) Count(ctx context.Context, c Category) (int, error) {
	var n int
	err := b.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM problems WHERE category=?`, string(c)).Scan(&n)
	return n, err
}

func (b *Bank) Generate(ctx context.Context, c Category) ([]game.Spec, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownCategory, c)
	}
	n := perGame(b.PerGame)
	rows, err := b.db.QueryContext(ctx, `
        SELECT problem, solution
        FROM problems
        WHERE category=?
        ORDER BY RANDOM()
        LIMIT ?`, string(c), n,
	)
	if err != nil {
		return nil, generationErr("query problems: %v", err)
	}
	defer rows.Close()

	out := make([]Problem, 0, n)
	for rows.Next() {
		var p Problem
		if err := rows.Scan(&p.Problem, &p.Solution); err != nil {
			return nil, generationErr("scan problem: %v", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, generationErr("read problems: %v", err)
	}

	var rng game.Shuffler
	if b.NewRand != nil {
		rng = b.NewRand()
	}
	warnShort("sqlite", c, len(out), n)
	return Compose(out, n, rng), nil
}

// openDB opens the SQLite file, creating its parent directory for relative
// paths like ./data/problems.db.
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies every *.sql file in fsys in lexical order, each in its own
// transaction, and records applied names in _migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}
