package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/subway-lines/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/subway-lines/internal/platform/querybuilder"
)

// BootstrapSeed inserts the development stations when the stations table is empty.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM stations WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count stations for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	return withTx(ctx, db, "bootstrap seed", func(tx *sqlx.Tx) error {
		for _, s := range memory.SeedStations() {
			query, args, err := qb.InsertModel("stations", stationInsertModel{Name: s.Name}).
				OnConflictDoNothing("(name) WHERE deleted_at IS NULL").
				ToSQL()
			if err != nil {
				return fmt.Errorf("build seed station %s query: %w", s.Name, err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("seed station %s: %w", s.Name, err)
			}
		}
		return nil
	})
}
