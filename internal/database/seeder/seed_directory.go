package seeder

import (
	"context"

	"capability-sync/internal/database"
)

// DirectorySeeder loads development persons and roles. Production
// deployments receive these from the organisation directory.
type DirectorySeeder struct{}

func (DirectorySeeder) Name() string { return "directory" }

func (DirectorySeeder) Run(ctx context.Context, db database.DB) (int64, error) {
	if err := RequireColumns(ctx, db, "persons", "id", "given_name", "family_name", "organization_id", "created_at"); err != nil {
		return 0, err
	}
	if err := RequireColumns(ctx, db, "roles", "id", "person_id", "team_id", "title_en", "title_fr", "active", "created_at", "updated_at"); err != nil {
		return 0, err
	}

	var inserted int64
	err := database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, p := range DevPersons() {
			n, err := tx.Exec(ctx,
				`INSERT INTO persons (id, given_name, family_name, organization_id, created_at)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (id) DO NOTHING`,
				p.ID, p.GivenName, p.FamilyName, p.OrganizationID, p.CreatedAt,
			)
			if err != nil {
				return err
			}
			inserted += n
		}
		for _, r := range DevRoles() {
			n, err := tx.Exec(ctx,
				`INSERT INTO roles (id, person_id, team_id, title_en, title_fr, active, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				 ON CONFLICT (id) DO NOTHING`,
				r.ID, r.PersonID, r.TeamID, r.TitleEn, r.TitleFr, r.Active, r.CreatedAt, r.UpdatedAt,
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
