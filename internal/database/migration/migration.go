package migration

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// SentinelTable is the table whose presence means the schema is in place.
const SentinelTable = "invoices"

var steps = []migrationStep{
	{
		Name: "create_table_customers",
		SQL: `CREATE TABLE IF NOT EXISTS customers (
  id        TEXT PRIMARY KEY,
  name      TEXT NOT NULL,
  email     TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_invoices",
		SQL: `CREATE TABLE IF NOT EXISTS invoices (
  id          UUID      PRIMARY KEY,
  seq         BIGSERIAL NOT NULL,
  customer_id TEXT      NOT NULL REFERENCES customers (id),
  amount      BIGINT    NOT NULL CHECK (amount >= 0),
  status      TEXT      NOT NULL CHECK (status IN ('pending', 'paid')),
  date        DATE      NOT NULL
);`,
	},
	{
		Name: "create_index_invoices_date_seq",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_invoices_date_seq ON invoices (date DESC, seq);`,
	},
	{
		Name: "create_index_invoices_customer_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_invoices_customer_id ON invoices (customer_id);`,
	},
	{
		Name: "create_index_invoices_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices (status);`,
	},
	{
		Name: "create_index_customers_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_customers_name ON customers (name);`,
	},
}

// EnsureMigrated creates the schema when the sentinel table is missing. All
// steps run in one transaction, so a failed step leaves no partial schema.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))
	log.Info("db_migration_check")

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+SentinelTable).Scan(&exists); err != nil {
		log.Error("db_migration_failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return errors.Wrap(err, "check sentinel table")
	}
	if exists {
		log.Info("db_migration_skip", zap.String("reason", "schema already exists"), zap.Duration("duration", time.Since(start)))
		return nil
	}

	log.Info("db_migration_start", zap.Int("steps", len(steps)))
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin migration")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("duration", time.Since(start)),
			)
			return errors.Wrapf(err, "migration step %s", step.Name)
		}
		log.Debug("db_migration_step", zap.String("migration_step", step.Name), zap.Duration("step_duration", time.Since(stepStart)))
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit migration")
	}
	log.Info("db_migration_success", zap.Duration("duration", time.Since(start)))
	return nil
}
