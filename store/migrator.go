package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/quillzy/quillzy/internal/version"
)

//go:embed migration
var migrationFS embed.FS

const migrationHistoryTable = `CREATE TABLE IF NOT EXISTS migration_history (
  version TEXT NOT NULL PRIMARY KEY,
  created_ts BIGINT NOT NULL
)`

// Migrate applies every schema version newer than the last recorded one.
// Each version runs in its own transaction.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.driver.GetDB()
	if _, err := db.ExecContext(ctx, migrationHistoryTable); err != nil {
		return errors.Wrap(err, "failed to create migration_history table")
	}

	current, err := s.currentSchemaVersion(ctx)
	if err != nil {
		return err
	}

	versions, err := migrationVersions(s.profile.Driver)
	if err != nil {
		return err
	}

	for _, v := range versions {
		if current != "" && !version.Newer(v, current) {
			continue
		}
		if err := s.applyMigration(ctx, v); err != nil {
			return err
		}
		slog.Info("Applied schema migration", "driver", s.profile.Driver, "version", v)
	}
	return nil
}

func (s *Store) currentSchemaVersion(ctx context.Context) (string, error) {
	rows, err := s.driver.GetDB().QueryContext(ctx, "SELECT version FROM migration_history")
	if err != nil {
		return "", errors.Wrap(err, "failed to read migration_history")
	}
	defer rows.Close()

	var applied []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return "", errors.Wrap(err, "failed to scan migration version")
		}
		applied = append(applied, v)
	}
	if err := rows.Err(); err != nil {
		return "", errors.Wrap(err, "failed to iterate migration_history")
	}
	if len(applied) == 0 {
		return "", nil
	}
	version.Sort(applied)
	return applied[len(applied)-1], nil
}

func (s *Store) applyMigration(ctx context.Context, v string) error {
	stmt, err := fs.ReadFile(migrationFS, path.Join("migration", s.profile.Driver, v+".sql"))
	if err != nil {
		return errors.Wrapf(err, "failed to read migration %s", v)
	}

	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin migration")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(stmt)); err != nil {
		return errors.Wrapf(err, "failed to apply migration %s", v)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO migration_history (version, created_ts) VALUES ("+s.placeholder(1)+", "+s.placeholder(2)+")", v, time.Now().Unix()); err != nil {
		return errors.Wrapf(err, "failed to record migration %s", v)
	}
	return tx.Commit()
}

func (s *Store) placeholder(n int) string {
	if s.profile.Driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// migrationVersions lists the embedded schema versions for driver, oldest first.
func migrationVersions(driver string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, path.Join("migration", driver))
	if err != nil {
		return nil, errors.Wrapf(err, "no migrations for driver %q", driver)
	}

	var versions []string
	for _, entry := range entries {
		if name := entry.Name(); !entry.IsDir() && strings.HasSuffix(name, ".sql") {
			versions = append(versions, strings.TrimSuffix(name, ".sql"))
		}
	}
	version.Sort(versions)
	return versions, nil
}
