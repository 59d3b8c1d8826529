package seeder

import (
	"context"

	"capability-sync/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) (int64, error)
}
