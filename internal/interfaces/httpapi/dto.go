package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/subway-lines/internal/domain/line"
	"github.com/riskibarqy/subway-lines/internal/domain/station"
)

type createLineRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Color         string `json:"color" validate:"required,max=64"`
	UpStationID   int64  `json:"up_station_id" validate:"required,gt=0"`
	DownStationID int64  `json:"down_station_id" validate:"required,gt=0,nefield=UpStationID"`
	Distance      int    `json:"distance" validate:"required,gt=0"`
}

type updateLineRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Color string `json:"color" validate:"required,max=64"`
}

type createStationRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type stationDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CreatedAtUTC string `json:"created_at_utc,omitempty"`
	UpdatedAtUTC string `json:"updated_at_utc,omitempty"`
}

type sectionDTO struct {
	ID          int64      `json:"id"`
	UpStation   stationDTO `json:"up_station"`
	DownStation stationDTO `json:"down_station"`
	Distance    int        `json:"distance"`
}

type lineDTO struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Color        string       `json:"color"`
	Stations     []stationDTO `json:"stations"`
	Sections     []sectionDTO `json:"sections"`
	CreatedAtUTC string       `json:"created_at_utc,omitempty"`
	UpdatedAtUTC string       `json:"updated_at_utc,omitempty"`
}

func stationToDTO(v station.Station) stationDTO {
	return stationDTO{
		ID:           v.ID,
		Name:         v.Name,
		CreatedAtUTC: formatTime(v.CreatedAt),
		UpdatedAtUTC: formatTime(v.UpdatedAt),
	}
}

// stationRefToDTO drops timestamps; stations nested in a line carry only id and name.
func stationRefToDTO(v station.Station) stationDTO {
	return stationDTO{ID: v.ID, Name: v.Name}
}

func lineToDTO(ctx context.Context, v line.Line) (lineDTO, error) {
	_, span := startSpan(ctx, "httpapi.lineToDTO")
	defer span.End()

	ordered, err := v.Stations()
	if err != nil {
		return lineDTO{}, err
	}

	stations := make([]stationDTO, 0, len(ordered))
	for _, s := range ordered {
		stations = append(stations, stationRefToDTO(s))
	}

	sections := make([]sectionDTO, 0, len(v.Sections))
	for _, s := range v.Sections {
		sections = append(sections, sectionDTO{
			ID:          s.ID,
			UpStation:   stationRefToDTO(s.UpStation),
			DownStation: stationRefToDTO(s.DownStation),
			Distance:    s.Distance,
		})
	}

	return lineDTO{
		ID:           v.ID,
		Name:         v.Name,
		Color:        v.Color,
		Stations:     stations,
		Sections:     sections,
		CreatedAtUTC: formatTime(v.CreatedAt),
		UpdatedAtUTC: formatTime(v.UpdatedAt),
	}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
