package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/subway-lines/internal/domain/station"
	qb "github.com/riskibarqy/subway-lines/internal/platform/querybuilder"
)

type StationRepository struct {
	db *sqlx.DB
}

func NewStationRepository(db *sqlx.DB) *StationRepository {
	return &StationRepository{db: db}
}

func (r *StationRepository) List(ctx context.Context) ([]station.Station, error) {
	query, args, err := qb.Select("*").From("stations").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stations query: %w", err)
	}

	var rows []stationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stations: %w", err)
	}

	out := make([]station.Station, 0, len(rows))
	for _, row := range rows {
		out = append(out, stationFromRow(row))
	}

	return out, nil
}

func (r *StationRepository) GetByID(ctx context.Context, stationID int64) (station.Station, bool, error) {
	query, args, err := qb.Select("*").From("stations").
		Where(
			qb.Eq("id", stationID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return station.Station{}, false, fmt.Errorf("build select station by id query: %w", err)
	}

	var row stationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return station.Station{}, false, nil
		}
		return station.Station{}, false, fmt.Errorf("get station by id: %w", err)
	}

	return stationFromRow(row), true, nil
}

func (r *StationRepository) Create(ctx context.Context, item station.Station) (station.Station, error) {
	query, args, err := qb.InsertModel("stations", stationInsertModel{Name: item.Name}).
		Returning("*").
		ToSQL()
	if err != nil {
		return station.Station{}, fmt.Errorf("build insert station query: %w", err)
	}

	var row stationTableModel
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if isUniqueViolation(err) {
			return station.Station{}, fmt.Errorf("%w: %s", station.ErrDuplicateName, item.Name)
		}
		return station.Station{}, fmt.Errorf("insert station: %w", err)
	}

	return stationFromRow(row), nil
}

// Delete soft-deletes a station that no live section references. The row lock
// serializes it with line creation, which share-locks the same row.
func (r *StationRepository) Delete(ctx context.Context, stationID int64) error {
	return withTx(ctx, r.db, "delete station", func(tx *sqlx.Tx) error {
		query, args, err := qb.Select("id").From("stations").
			Where(
				qb.Eq("id", stationID),
				qb.IsNull("deleted_at"),
			).
			ForUpdate().
			ToSQL()
		if err != nil {
			return fmt.Errorf("build lock station query: %w", err)
		}

		var id int64
		if err := tx.GetContext(ctx, &id, query, args...); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: station=%d", station.ErrNotFound, stationID)
			}
			return fmt.Errorf("lock station: %w", err)
		}

		query, args, err = qb.Select("COUNT(1)").From("sections").
			Where(
				qb.Expr("(up_station_id = ? OR down_station_id = ?)", stationID, stationID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build count sections by station query: %w", err)
		}

		var used int
		if err := tx.GetContext(ctx, &used, query, args...); err != nil {
			return fmt.Errorf("count sections by station: %w", err)
		}
		if used > 0 {
			return fmt.Errorf("%w: station=%d", station.ErrInUse, stationID)
		}

		query, args, err = qb.Update("stations").
			SetExpr("deleted_at", "NOW()").
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", stationID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build soft delete station query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("soft delete station: %w", err)
		}

		return nil
	})
}

func stationFromRow(row stationTableModel) station.Station {
	return station.Station{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
