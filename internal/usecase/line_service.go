package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/subway-lines/internal/domain/line"
	"github.com/riskibarqy/subway-lines/internal/domain/station"
	"github.com/riskibarqy/subway-lines/internal/platform/logging"
)

type CreateLineInput struct {
	Name          string
	Color         string
	UpStationID   int64
	DownStationID int64
	Distance      int
}

type UpdateLineInput struct {
	Name  string
	Color string
}

type LineService struct {
	lineRepo    line.Repository
	stationRepo station.Repository
	logger      *logging.Logger
}

func NewLineService(lineRepo line.Repository, stationRepo station.Repository, logger *logging.Logger) *LineService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LineService{
		lineRepo:    lineRepo,
		stationRepo: stationRepo,
		logger:      logger,
	}
}

func (s *LineService) CreateLine(ctx context.Context, input CreateLineInput) (line.Line, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineService.CreateLine")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Color = strings.TrimSpace(input.Color)
	if input.Name == "" {
		return line.Line{}, fmt.Errorf("%w: line name is required", ErrInvalidInput)
	}
	if input.Color == "" {
		return line.Line{}, fmt.Errorf("%w: line color is required", ErrInvalidInput)
	}
	if input.UpStationID <= 0 {
		return line.Line{}, fmt.Errorf("%w: up station id is required", ErrInvalidInput)
	}
	if input.DownStationID <= 0 {
		return line.Line{}, fmt.Errorf("%w: down station id is required", ErrInvalidInput)
	}
	if input.UpStationID == input.DownStationID {
		return line.Line{}, fmt.Errorf("%w: %v", ErrInvalidInput, line.ErrSameStations)
	}
	if input.Distance <= 0 {
		return line.Line{}, fmt.Errorf("%w: %v", ErrInvalidInput, line.ErrInvalidDistance)
	}

	if err := s.ensureNameAvailable(ctx, input.Name, 0); err != nil {
		return line.Line{}, err
	}

	upStation, err := s.findStation(ctx, input.UpStationID, "up")
	if err != nil {
		return line.Line{}, err
	}
	downStation, err := s.findStation(ctx, input.DownStationID, "down")
	if err != nil {
		return line.Line{}, err
	}

	item := line.New(input.Name, input.Color, line.Section{
		UpStation:   upStation,
		DownStation: downStation,
		Distance:    input.Distance,
	})
	if err := item.Validate(); err != nil {
		return line.Line{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.lineRepo.Create(ctx, item)
	if err != nil {
		if errors.Is(err, line.ErrDuplicateName) {
			return line.Line{}, fmt.Errorf("%w: line name=%s", ErrDuplicate, input.Name)
		}
		if errors.Is(err, station.ErrNotFound) {
			return line.Line{}, fmt.Errorf("%w: %v", ErrStationNotFound, err)
		}
		return line.Line{}, fmt.Errorf("create line: %w", err)
	}

	s.logger.InfoContext(ctx, "line created",
		"line_id", created.ID,
		"name", created.Name,
		"up_station_id", upStation.ID,
		"down_station_id", downStation.ID,
	)

	return created, nil
}

func (s *LineService) ListLines(ctx context.Context) ([]line.Line, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineService.ListLines")
	defer span.End()

	items, err := s.lineRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}

	return items, nil
}

func (s *LineService) GetLine(ctx context.Context, lineID int64) (line.Line, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineService.GetLine")
	defer span.End()

	return s.findLine(ctx, lineID)
}

func (s *LineService) UpdateLine(ctx context.Context, lineID int64, input UpdateLineInput) (line.Line, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineService.UpdateLine")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Color = strings.TrimSpace(input.Color)
	if input.Name == "" {
		return line.Line{}, fmt.Errorf("%w: line name is required", ErrInvalidInput)
	}
	if input.Color == "" {
		return line.Line{}, fmt.Errorf("%w: line color is required", ErrInvalidInput)
	}

	item, err := s.findLine(ctx, lineID)
	if err != nil {
		return line.Line{}, err
	}

	if input.Name != item.Name {
		if err := s.ensureNameAvailable(ctx, input.Name, item.ID); err != nil {
			return line.Line{}, err
		}
	}

	item.Update(input.Name, input.Color)
	if err := s.lineRepo.Update(ctx, item); err != nil {
		switch {
		case errors.Is(err, line.ErrNotFound):
			return line.Line{}, fmt.Errorf("%w: line=%d", ErrNotFound, lineID)
		case errors.Is(err, line.ErrDuplicateName):
			return line.Line{}, fmt.Errorf("%w: line name=%s", ErrDuplicate, input.Name)
		default:
			return line.Line{}, fmt.Errorf("update line: %w", err)
		}
	}

	return item, nil
}

func (s *LineService) DeleteLine(ctx context.Context, lineID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineService.DeleteLine")
	defer span.End()

	if _, err := s.findLine(ctx, lineID); err != nil {
		return err
	}

	if err := s.lineRepo.Delete(ctx, lineID); err != nil {
		if errors.Is(err, line.ErrNotFound) {
			return fmt.Errorf("%w: line=%d", ErrNotFound, lineID)
		}
		return fmt.Errorf("delete line: %w", err)
	}

	s.logger.InfoContext(ctx, "line deleted", "line_id", lineID)
	return nil
}

func (s *LineService) findLine(ctx context.Context, lineID int64) (line.Line, error) {
	if lineID <= 0 {
		return line.Line{}, fmt.Errorf("%w: line=%d", ErrNotFound, lineID)
	}

	item, exists, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return line.Line{}, fmt.Errorf("get line by id: %w", err)
	}
	if !exists {
		return line.Line{}, fmt.Errorf("%w: line=%d", ErrNotFound, lineID)
	}

	return item, nil
}

// ensureNameAvailable rejects a name owned by any live line other than ownerID.
func (s *LineService) ensureNameAvailable(ctx context.Context, name string, ownerID int64) error {
	existing, exists, err := s.lineRepo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("get line by name: %w", err)
	}
	if exists && existing.ID != ownerID {
		return fmt.Errorf("%w: line name=%s", ErrDuplicate, name)
	}

	return nil
}

func (s *LineService) findStation(ctx context.Context, stationID int64, role string) (station.Station, error) {
	item, exists, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		return station.Station{}, fmt.Errorf("get %s station: %w", role, err)
	}
	if !exists {
		return station.Station{}, fmt.Errorf("%w: %s station=%d", ErrStationNotFound, role, stationID)
	}

	return item, nil
}
