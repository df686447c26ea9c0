package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/subway-lines/internal/domain/line"
	"github.com/riskibarqy/subway-lines/internal/domain/station"
	qb "github.com/riskibarqy/subway-lines/internal/platform/querybuilder"
)

type LineRepository struct {
	db *sqlx.DB
}

func NewLineRepository(db *sqlx.DB) *LineRepository {
	return &LineRepository{db: db}
}

func (r *LineRepository) List(ctx context.Context) ([]line.Line, error) {
	query, args, err := qb.Select("*").From("lines").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select lines query: %w", err)
	}

	var rows []lineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select lines: %w", err)
	}
	if len(rows) == 0 {
		return []line.Line{}, nil
	}

	lineIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		lineIDs = append(lineIDs, row.ID)
	}
	sections, err := r.listSections(ctx, lineIDs)
	if err != nil {
		return nil, err
	}

	out := make([]line.Line, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineFromRow(row, sections[row.ID]))
	}

	return out, nil
}

func (r *LineRepository) GetByID(ctx context.Context, lineID int64) (line.Line, bool, error) {
	return r.getOne(ctx, "id", qb.Eq("id", lineID))
}

func (r *LineRepository) GetByName(ctx context.Context, name string) (line.Line, bool, error) {
	return r.getOne(ctx, "name", qb.Eq("name", name))
}

func (r *LineRepository) ExistsByStation(ctx context.Context, stationID int64) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("sections").
		Where(
			qb.Expr("(up_station_id = ? OR down_station_id = ?)", stationID, stationID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build count sections by station query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("count sections by station: %w", err)
	}

	return count > 0, nil
}

func (r *LineRepository) Create(ctx context.Context, item line.Line) (line.Line, error) {
	created := item
	created.Sections = append([]line.Section(nil), item.Sections...)

	err := withTx(ctx, r.db, "create line", func(tx *sqlx.Tx) error {
		if err := lockStations(ctx, tx, created.StationIDs()); err != nil {
			return err
		}

		query, args, err := qb.InsertModel("lines", lineInsertModel{
			Name:  item.Name,
			Color: item.Color,
		}).Returning("*").ToSQL()
		if err != nil {
			return fmt.Errorf("build insert line query: %w", err)
		}

		var row lineTableModel
		if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", line.ErrDuplicateName, item.Name)
			}
			return fmt.Errorf("insert line: %w", err)
		}
		created.ID = row.ID
		created.CreatedAt = row.CreatedAt
		created.UpdatedAt = row.UpdatedAt

		for i, s := range created.Sections {
			query, args, err := qb.InsertModel("sections", sectionInsertModel{
				LineID:        row.ID,
				UpStationID:   s.UpStation.ID,
				DownStationID: s.DownStation.ID,
				Distance:      s.Distance,
			}).Returning("id").ToSQL()
			if err != nil {
				return fmt.Errorf("build insert section query: %w", err)
			}
			if err := tx.QueryRowxContext(ctx, query, args...).Scan(&created.Sections[i].ID); err != nil {
				return fmt.Errorf("insert section up=%d down=%d: %w", s.UpStation.ID, s.DownStation.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return line.Line{}, err
	}

	return created, nil
}

func (r *LineRepository) Update(ctx context.Context, item line.Line) error {
	query, args, err := qb.Update("lines").
		Set("name", item.Name).
		Set("color", item.Color).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update line query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", line.ErrDuplicateName, item.Name)
		}
		return fmt.Errorf("update line: %w", err)
	}
	affected, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: line=%d", line.ErrNotFound, item.ID)
	}

	return nil
}

func (r *LineRepository) Delete(ctx context.Context, lineID int64) error {
	return withTx(ctx, r.db, "delete line", func(tx *sqlx.Tx) error {
		query, args, err := qb.Update("lines").
			SetExpr("deleted_at", "NOW()").
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("id", lineID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build soft delete line query: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("soft delete line: %w", err)
		}
		affected, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: line=%d", line.ErrNotFound, lineID)
		}

		query, args, err = qb.Update("sections").
			SetExpr("deleted_at", "NOW()").
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("line_id", lineID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build soft delete sections query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("soft delete sections of line=%d: %w", lineID, err)
		}

		return nil
	})
}

// lockStations share-locks the live stations a line references so a
// concurrent station delete waits for this transaction, and fails when any of
// them is already gone.
func lockStations(ctx context.Context, tx *sqlx.Tx, stationIDs []int64) error {
	ids := make([]any, 0, len(stationIDs))
	for _, id := range stationIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Select("id").From("stations").
		Where(
			qb.In("id", ids),
			qb.IsNull("deleted_at"),
		).
		ForShare().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock stations query: %w", err)
	}

	var locked []int64
	if err := tx.SelectContext(ctx, &locked, query, args...); err != nil {
		return fmt.Errorf("lock stations: %w", err)
	}
	if missing := missingIDs(stationIDs, locked); len(missing) > 0 {
		return fmt.Errorf("%w: station=%d", station.ErrNotFound, missing[0])
	}

	return nil
}

func missingIDs(want, got []int64) []int64 {
	seen := make(map[int64]struct{}, len(got))
	for _, id := range got {
		seen[id] = struct{}{}
	}
	var out []int64
	for _, id := range want {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func (r *LineRepository) getOne(ctx context.Context, by string, cond qb.Condition) (line.Line, bool, error) {
	query, args, err := qb.Select("*").From("lines").
		Where(cond, qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return line.Line{}, false, fmt.Errorf("build select line by %s query: %w", by, err)
	}

	var row lineTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return line.Line{}, false, nil
		}
		return line.Line{}, false, fmt.Errorf("get line by %s: %w", by, err)
	}

	sections, err := r.listSections(ctx, []any{row.ID})
	if err != nil {
		return line.Line{}, false, err
	}

	return lineFromRow(row, sections[row.ID]), true, nil
}

func (r *LineRepository) listSections(ctx context.Context, lineIDs []any) (map[int64][]line.Section, error) {
	query, args, err := qb.Select(
		"s.id",
		"s.line_id",
		"s.distance",
		"up.id AS up_station_id",
		"up.name AS up_station_name",
		"down.id AS down_station_id",
		"down.name AS down_station_name",
	).
		From("sections s").
		Join("JOIN stations up ON up.id = s.up_station_id").
		Join("JOIN stations down ON down.id = s.down_station_id").
		Where(
			qb.In("s.line_id", lineIDs),
			qb.IsNull("s.deleted_at"),
		).
		OrderBy("s.line_id", "s.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sections query: %w", err)
	}

	var rows []sectionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sections: %w", err)
	}

	return groupSectionsByLine(rows), nil
}

func groupSectionsByLine(rows []sectionRow) map[int64][]line.Section {
	out := make(map[int64][]line.Section)
	for _, row := range rows {
		out[row.LineID] = append(out[row.LineID], line.Section{
			ID:          row.ID,
			UpStation:   station.Station{ID: row.UpStationID, Name: row.UpStationName},
			DownStation: station.Station{ID: row.DownStationID, Name: row.DownStationName},
			Distance:    row.Distance,
		})
	}
	return out
}

func lineFromRow(row lineTableModel, sections []line.Section) line.Line {
	return line.Line{
		ID:        row.ID,
		Name:      row.Name,
		Color:     row.Color,
		Sections:  sections,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
