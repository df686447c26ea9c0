package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/subway-lines/internal/domain/line"
	"github.com/riskibarqy/subway-lines/internal/domain/station"
	linemock "github.com/riskibarqy/subway-lines/internal/mocks/domain/line"
	stationmock "github.com/riskibarqy/subway-lines/internal/mocks/domain/station"
	"github.com/stretchr/testify/mock"
)

func TestLineService_CreateLine_RepositoryDuplicateUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lineRepo := linemock.NewRepository(t)
	stationRepo := stationmock.NewRepository(t)
	service := NewLineService(lineRepo, stationRepo, nil)

	sameCtx := mock.MatchedBy(func(v context.Context) bool { return v == ctx })
	lineRepo.
		On("GetByName", sameCtx, "Line 2").
		Return(line.Line{}, false, nil).
		Once()
	stationRepo.
		On("GetByID", sameCtx, int64(1)).
		Return(station.Station{ID: 1, Name: "Gangnam"}, true, nil).
		Once()
	stationRepo.
		On("GetByID", sameCtx, int64(2)).
		Return(station.Station{ID: 2, Name: "Yeoksam"}, true, nil).
		Once()
	// A concurrent writer claimed the name between the check and the insert.
	lineRepo.
		On("Create", sameCtx, mock.MatchedBy(func(item line.Line) bool { return item.Name == "Line 2" })).
		Return(line.Line{}, line.ErrDuplicateName).
		Once()

	_, err := service.CreateLine(ctx, validCreateLineInput())
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestLineService_CreateLine_StationLookupFailsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lineRepo := linemock.NewRepository(t)
	stationRepo := stationmock.NewRepository(t)
	service := NewLineService(lineRepo, stationRepo, nil)

	dbErr := errors.New("connection reset")
	lineRepo.
		On("GetByName", mock.Anything, "Line 2").
		Return(line.Line{}, false, nil).
		Once()
	stationRepo.
		On("GetByID", mock.Anything, int64(1)).
		Return(station.Station{}, false, dbErr).
		Once()

	_, err := service.CreateLine(ctx, validCreateLineInput())
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
	if errors.Is(err, ErrStationNotFound) {
		t.Fatalf("repository failure must not look like a missing station: %v", err)
	}
}

func TestLineService_GetLine_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), "trace_id", "trace-123")
	lineRepo := linemock.NewRepository(t)
	stationRepo := stationmock.NewRepository(t)
	service := NewLineService(lineRepo, stationRepo, nil)

	lineRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(42)).
		Return(line.Line{}, false, nil).
		Once()

	_, err := service.GetLine(ctx, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLineService_UpdateLine_ConcurrentDeleteUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lineRepo := linemock.NewRepository(t)
	stationRepo := stationmock.NewRepository(t)
	service := NewLineService(lineRepo, stationRepo, nil)

	existing := line.Line{ID: 7, Name: "Line 7", Color: "olive"}
	lineRepo.
		On("GetByID", mock.Anything, int64(7)).
		Return(existing, true, nil).
		Once()
	lineRepo.
		On("Update", mock.Anything, mock.MatchedBy(func(item line.Line) bool {
			return item.ID == 7 && item.Name == "Line 7" && item.Color == "khaki"
		})).
		Return(line.ErrNotFound).
		Once()

	_, err := service.UpdateLine(ctx, 7, UpdateLineInput{Name: "Line 7", Color: "khaki"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLineService_DeleteLine_SkipsRepositoryForMissingUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lineRepo := linemock.NewRepository(t)
	stationRepo := stationmock.NewRepository(t)
	service := NewLineService(lineRepo, stationRepo, nil)

	lineRepo.
		On("GetByID", mock.Anything, int64(3)).
		Return(line.Line{}, false, nil).
		Once()

	if err := service.DeleteLine(ctx, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	lineRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLineService_CreateLine_StationDeletedBeforeInsertUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lineRepo := linemock.NewRepository(t)
	stationRepo := stationmock.NewRepository(t)
	service := NewLineService(lineRepo, stationRepo, nil)

	lineRepo.On("GetByName", mock.Anything, "Line 2").Return(line.Line{}, false, nil).Once()
	stationRepo.On("GetByID", mock.Anything, int64(1)).Return(station.Station{ID: 1, Name: "Gangnam"}, true, nil).Once()
	stationRepo.On("GetByID", mock.Anything, int64(2)).Return(station.Station{ID: 2, Name: "Yeoksam"}, true, nil).Once()
	// Station 2 was deleted after the lookup; the insert transaction sees it gone.
	lineRepo.
		On("Create", mock.Anything, mock.AnythingOfType("line.Line")).
		Return(line.Line{}, fmt.Errorf("%w: station=2", station.ErrNotFound)).
		Once()

	_, err := service.CreateLine(ctx, validCreateLineInput())
	if !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("expected ErrStationNotFound, got %v", err)
	}
}

func TestStationService_DeleteStation_InUseAtDeleteUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lineRepo := linemock.NewRepository(t)
	stationRepo := stationmock.NewRepository(t)
	service := NewStationService(stationRepo, lineRepo)

	stationRepo.On("GetByID", mock.Anything, int64(1)).Return(station.Station{ID: 1, Name: "Gangnam"}, true, nil).Once()
	lineRepo.On("ExistsByStation", mock.Anything, int64(1)).Return(false, nil).Once()
	// A line referencing the station committed between the usage check and the delete.
	stationRepo.
		On("Delete", mock.Anything, int64(1)).
		Return(fmt.Errorf("%w: station=1", station.ErrInUse)).
		Once()

	err := service.DeleteStation(ctx, 1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
