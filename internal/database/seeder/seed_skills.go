package seeder

import (
	"context"

	"capability-sync/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) (int64, error) {
	if err := RequireColumns(ctx, db, "skills", "id", "name_en", "name_fr", "description_en", "description_fr", "domain", "created_at", "updated_at"); err != nil {
		return 0, err
	}

	var inserted int64
	err := database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, sk := range DefaultSkills() {
			n, err := tx.Exec(ctx,
				`INSERT INTO skills (id, name_en, name_fr, description_en, description_fr, domain, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
				 ON CONFLICT (name_en) DO NOTHING`,
				sk.ID, sk.NameEn, sk.NameFr, sk.DescriptionEn, sk.DescriptionFr, string(sk.Domain), sk.CreatedAt,
			)
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	return inserted, err
}
