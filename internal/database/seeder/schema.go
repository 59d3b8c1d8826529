package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"capability-sync/internal/database"
)

var errSchemaMismatch = errors.New("schema mismatch")

// RequireColumns fails unless every column exists on table. All missing
// columns are reported together; run the migrate command first.
func RequireColumns(ctx context.Context, q database.Querier, table string, columns ...string) error {
	if q == nil {
		return errors.New("seeder: nil db")
	}
	if table == "" {
		return errors.New("seeder: empty table")
	}

	rows, err := q.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, col := range columns {
		if _, ok := existing[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s missing %s", errSchemaMismatch, table, strings.Join(missing, ", "))
	}
	return nil
}
