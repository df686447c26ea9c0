package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/subway-lines/internal/domain/line"
	"github.com/riskibarqy/subway-lines/internal/domain/station"
)

type StationService struct {
	stationRepo station.Repository
	lineRepo    line.Repository
}

func NewStationService(stationRepo station.Repository, lineRepo line.Repository) *StationService {
	return &StationService{
		stationRepo: stationRepo,
		lineRepo:    lineRepo,
	}
}

func (s *StationService) CreateStation(ctx context.Context, name string) (station.Station, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StationService.CreateStation")
	defer span.End()

	item := station.Station{Name: strings.TrimSpace(name)}
	if err := item.Validate(); err != nil {
		return station.Station{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.stationRepo.Create(ctx, item)
	if err != nil {
		if errors.Is(err, station.ErrDuplicateName) {
			return station.Station{}, fmt.Errorf("%w: station name=%s", ErrDuplicate, item.Name)
		}
		return station.Station{}, fmt.Errorf("create station: %w", err)
	}

	return created, nil
}

func (s *StationService) ListStations(ctx context.Context) ([]station.Station, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StationService.ListStations")
	defer span.End()

	items, err := s.stationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}

	return items, nil
}

func (s *StationService) GetStation(ctx context.Context, stationID int64) (station.Station, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StationService.GetStation")
	defer span.End()

	return s.findStation(ctx, stationID)
}

func (s *StationService) DeleteStation(ctx context.Context, stationID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StationService.DeleteStation")
	defer span.End()

	if _, err := s.findStation(ctx, stationID); err != nil {
		return err
	}

	inUse, err := s.lineRepo.ExistsByStation(ctx, stationID)
	if err != nil {
		return fmt.Errorf("check station usage: %w", err)
	}
	if inUse {
		return fmt.Errorf("%w: station=%d is used by a line section", ErrInvalidInput, stationID)
	}

	if err := s.stationRepo.Delete(ctx, stationID); err != nil {
		if errors.Is(err, station.ErrNotFound) {
			return fmt.Errorf("%w: station=%d", ErrNotFound, stationID)
		}
		if errors.Is(err, station.ErrInUse) {
			return fmt.Errorf("%w: station=%d is used by a line section", ErrInvalidInput, stationID)
		}
		return fmt.Errorf("delete station: %w", err)
	}

	return nil
}

func (s *StationService) findStation(ctx context.Context, stationID int64) (station.Station, error) {
	if stationID <= 0 {
		return station.Station{}, fmt.Errorf("%w: station=%d", ErrNotFound, stationID)
	}

	item, exists, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		return station.Station{}, fmt.Errorf("get station by id: %w", err)
	}
	if !exists {
		return station.Station{}, fmt.Errorf("%w: station=%d", ErrNotFound, stationID)
	}

	return item, nil
}
