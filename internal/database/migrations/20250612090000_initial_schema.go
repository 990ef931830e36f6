package migrations

import (
	"context"
	"fmt"

	"github.com/smokefree-kz/backend/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.User)(nil),
			(*types.SmokeLog)(nil),
			(*types.Invitation)(nil),
			(*types.Friendship)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		// Pending invitations are listed per invitee; dashboard scans are
		// (user_id, date) range queries covered by the smoke_logs pk.
		_, err := db.NewCreateIndex().
			Model((*types.Invitation)(nil)).
			Index("invitations_invitee_idx").
			IfNotExists().
			Column("invitee_id").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create invitation index: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.Friendship)(nil),
			(*types.Invitation)(nil),
			(*types.SmokeLog)(nil),
			(*types.User)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
