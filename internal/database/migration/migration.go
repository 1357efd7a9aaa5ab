package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"chef/internal/database"
	"chef/internal/model"
)

// Step is one versioned schema change. Its statements run in a single transaction.
type Step struct {
	Version    int
	Name       string
	Statements []string
}

var steps = []Step{
	{
		Version: 1,
		Name:    "create_table_users",
		Statements: []string{`CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY,
  username      TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`},
	},
	{
		Version: 2,
		Name:    "create_table_dishes",
		Statements: []string{`CREATE TABLE IF NOT EXISTS dishes (
  id         UUID         PRIMARY KEY,
  owner_id   UUID         NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  title      VARCHAR(200) NOT NULL,
  text       TEXT         NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
  CONSTRAINT dishes_owner_title_key UNIQUE (owner_id, title)
);`},
	},
	{
		Version: 3,
		Name:    "create_table_meals",
		Statements: []string{`CREATE TABLE IF NOT EXISTS meals (
  id         UUID        PRIMARY KEY,
  dish_id    UUID        NOT NULL REFERENCES dishes (id) ON DELETE CASCADE,
  date       DATE        NOT NULL,
  owner_id   UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`},
	},
	{
		Version: 4,
		Name:    "create_index_meals_owner_date",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_meals_owner_date ON meals (owner_id, date);`,
			`CREATE INDEX IF NOT EXISTS idx_meals_dish_id ON meals (dish_id);`,
		},
	},
	{
		Version: 5,
		Name:    "add_dishes_exclude_from_suggestions",
		Statements: []string{
			`ALTER TABLE dishes ADD COLUMN IF NOT EXISTS exclude_from_suggestions BOOLEAN NOT NULL DEFAULT FALSE;`,
		},
	},
	{
		Version: 6,
		Name:    "alter_dishes_exclude_from_suggestions",
		Statements: []string{
			`ALTER TABLE dishes ALTER COLUMN exclude_from_suggestions SET DEFAULT FALSE;`,
			`COMMENT ON COLUMN dishes.exclude_from_suggestions IS '` + model.ExcludeFromSuggestionsHelp + `';`,
		},
	},
	{
		Version: 7,
		Name:    "add_dishes_photo_key",
		Statements: []string{
			`ALTER TABLE dishes ADD COLUMN IF NOT EXISTS photo_key TEXT;`,
		},
	},
}

// Steps returns the ordered list of known schema changes.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// EnsureMigrated applies every step newer than the recorded schema version.
func EnsureMigrated(ctx context.Context, db *sql.DB, log logrus.FieldLogger, dbHost string) error {
	return apply(ctx, db, log.WithFields(logrus.Fields{"component": "database", "db_host": dbHost}), steps)
}

func apply(ctx context.Context, db *sql.DB, log logrus.FieldLogger, steps []Step) error {
	start := time.Now()
	log.WithField("event", "db_migration_check").Info("checking schema version")

	const qTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
  version    INTEGER     PRIMARY KEY,
  name       TEXT        NOT NULL,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	if _, err := db.ExecContext(ctx, qTable); err != nil {
		log.WithField("event", "db_migration_failed").WithError(err).Error("failed to create schema_migrations")
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	const qVersion = `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`
	if err := db.QueryRowContext(ctx, qVersion).Scan(&current); err != nil {
		log.WithField("event", "db_migration_failed").WithError(err).Error("failed to read schema version")
		return fmt.Errorf("read schema version: %w", err)
	}

	applied := 0
	for _, step := range steps {
		if step.Version <= current {
			continue
		}
		stepStart := time.Now()
		entry := log.WithFields(logrus.Fields{"migration_step": step.Name, "version": step.Version})

		err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
			for _, stmt := range step.Statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			const qRecord = `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`
			_, err := tx.ExecContext(ctx, qRecord, step.Version, step.Name)
			return err
		})
		if err != nil {
			entry.WithField("event", "db_migration_failed").WithError(err).Error("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		entry.WithFields(logrus.Fields{
			"event":            "db_migration_step",
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Info("migration step applied")
		applied++
	}

	log.WithFields(logrus.Fields{
		"event":       "db_migration_success",
		"from":        current,
		"applied":     applied,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("schema up to date")
	return nil
}
