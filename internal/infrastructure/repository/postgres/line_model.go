package postgres

import "time"

type lineTableModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Color     string     `db:"color"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type lineInsertModel struct {
	Name  string `db:"name"`
	Color string `db:"color"`
}

type sectionInsertModel struct {
	LineID        int64 `db:"line_id"`
	UpStationID   int64 `db:"up_station_id"`
	DownStationID int64 `db:"down_station_id"`
	Distance      int   `db:"distance"`
}

// sectionRow is a section joined with both of its stations.
type sectionRow struct {
	ID              int64  `db:"id"`
	LineID          int64  `db:"line_id"`
	UpStationID     int64  `db:"up_station_id"`
	UpStationName   string `db:"up_station_name"`
	DownStationID   int64  `db:"down_station_id"`
	DownStationName string `db:"down_station_name"`
	Distance        int    `db:"distance"`
}
