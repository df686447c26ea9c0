package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/subway-lines/internal/infrastructure/repository/memory"
)

func newMemoryLineService() (*LineService, *memory.LineRepository, *memory.StationRepository) {
	lineRepo := memory.NewLineRepository()
	stationRepo := memory.NewStationRepository(memory.SeedStations())
	return NewLineService(lineRepo, stationRepo, nil), lineRepo, stationRepo
}

func validCreateLineInput() CreateLineInput {
	return CreateLineInput{
		Name:          "Line 2",
		Color:         "bg-green-600",
		UpStationID:   1,
		DownStationID: 2,
		Distance:      10,
	}
}

func TestLineService_CreateLine_Success(t *testing.T) {
	svc, _, _ := newMemoryLineService()

	created, err := svc.CreateLine(t.Context(), CreateLineInput{
		Name:          "  Line 2 ",
		Color:         " bg-green-600 ",
		UpStationID:   1,
		DownStationID: 2,
		Distance:      10,
	})
	if err != nil {
		t.Fatalf("create line: %v", err)
	}

	if created.ID <= 0 {
		t.Fatalf("expected assigned id, got %d", created.ID)
	}
	if created.Name != "Line 2" || created.Color != "bg-green-600" {
		t.Fatalf("unexpected line: name=%q color=%q", created.Name, created.Color)
	}
	if len(created.Sections) != 1 {
		t.Fatalf("unexpected section count: %d", len(created.Sections))
	}
	section := created.Sections[0]
	if section.UpStation.Name != "Gangnam" || section.DownStation.Name != "Yeoksam" || section.Distance != 10 {
		t.Fatalf("unexpected section: %+v", section)
	}

	stations, err := created.Stations()
	if err != nil {
		t.Fatalf("stations: %v", err)
	}
	if len(stations) != 2 || stations[0].ID != 1 || stations[1].ID != 2 {
		t.Fatalf("unexpected stations: %+v", stations)
	}
}

func TestLineService_CreateLine_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateLineInput)
	}{
		{name: "blank name", mutate: func(in *CreateLineInput) { in.Name = "   " }},
		{name: "blank color", mutate: func(in *CreateLineInput) { in.Color = "" }},
		{name: "missing up station", mutate: func(in *CreateLineInput) { in.UpStationID = 0 }},
		{name: "missing down station", mutate: func(in *CreateLineInput) { in.DownStationID = -1 }},
		{name: "same stations", mutate: func(in *CreateLineInput) { in.DownStationID = in.UpStationID }},
		{name: "zero distance", mutate: func(in *CreateLineInput) { in.Distance = 0 }},
		{name: "negative distance", mutate: func(in *CreateLineInput) { in.Distance = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, lineRepo, _ := newMemoryLineService()
			input := validCreateLineInput()
			tt.mutate(&input)

			_, err := svc.CreateLine(t.Context(), input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}

			items, _ := lineRepo.List(t.Context())
			if len(items) != 0 {
				t.Fatalf("invalid input must not persist a line, got %d", len(items))
			}
		})
	}
}

func TestLineService_CreateLine_DuplicateName(t *testing.T) {
	svc, _, _ := newMemoryLineService()

	if _, err := svc.CreateLine(t.Context(), validCreateLineInput()); err != nil {
		t.Fatalf("create first line: %v", err)
	}

	input := validCreateLineInput()
	input.UpStationID = 3
	input.DownStationID = 4
	_, err := svc.CreateLine(t.Context(), input)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestLineService_CreateLine_UnknownStation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateLineInput)
	}{
		{name: "unknown up station", mutate: func(in *CreateLineInput) { in.UpStationID = 99 }},
		{name: "unknown down station", mutate: func(in *CreateLineInput) { in.DownStationID = 99 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, lineRepo, _ := newMemoryLineService()
			input := validCreateLineInput()
			tt.mutate(&input)

			_, err := svc.CreateLine(t.Context(), input)
			if !errors.Is(err, ErrStationNotFound) {
				t.Fatalf("expected ErrStationNotFound, got %v", err)
			}

			items, _ := lineRepo.List(t.Context())
			if len(items) != 0 {
				t.Fatalf("unknown station must not persist a line, got %d", len(items))
			}
		})
	}
}

func TestLineService_ListAndGet(t *testing.T) {
	svc, _, _ := newMemoryLineService()

	items, err := svc.ListLines(t.Context())
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no lines, got %d", len(items))
	}

	first, err := svc.CreateLine(t.Context(), validCreateLineInput())
	if err != nil {
		t.Fatalf("create first line: %v", err)
	}
	second, err := svc.CreateLine(t.Context(), CreateLineInput{
		Name:          "Shinbundang",
		Color:         "bg-red-600",
		UpStationID:   5,
		DownStationID: 6,
		Distance:      7,
	})
	if err != nil {
		t.Fatalf("create second line: %v", err)
	}

	items, err = svc.ListLines(t.Context())
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(items) != 2 || items[0].ID != first.ID || items[1].ID != second.ID {
		t.Fatalf("unexpected list: %+v", items)
	}

	got, err := svc.GetLine(t.Context(), second.ID)
	if err != nil {
		t.Fatalf("get line: %v", err)
	}
	if got.Name != "Shinbundang" {
		t.Fatalf("unexpected line name: %s", got.Name)
	}

	for _, missingID := range []int64{0, -1, 999} {
		if _, err := svc.GetLine(t.Context(), missingID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for id=%d, got %v", missingID, err)
		}
	}
}

func TestLineService_UpdateLine(t *testing.T) {
	svc, _, _ := newMemoryLineService()

	created, err := svc.CreateLine(t.Context(), validCreateLineInput())
	if err != nil {
		t.Fatalf("create line: %v", err)
	}

	updated, err := svc.UpdateLine(t.Context(), created.ID, UpdateLineInput{Name: "Line 2 Circle", Color: "bg-lime-500"})
	if err != nil {
		t.Fatalf("update line: %v", err)
	}
	if updated.Name != "Line 2 Circle" || updated.Color != "bg-lime-500" {
		t.Fatalf("unexpected updated line: %+v", updated)
	}

	got, err := svc.GetLine(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("get line: %v", err)
	}
	if got.Name != "Line 2 Circle" || len(got.Sections) != 1 {
		t.Fatalf("unexpected stored line: %+v", got)
	}

	if _, err := svc.UpdateLine(t.Context(), created.ID, UpdateLineInput{Name: "Line 2 Circle", Color: "bg-green-600"}); err != nil {
		t.Fatalf("keeping own name must succeed: %v", err)
	}
}

func TestLineService_UpdateLine_Errors(t *testing.T) {
	svc, _, _ := newMemoryLineService()

	first, err := svc.CreateLine(t.Context(), validCreateLineInput())
	if err != nil {
		t.Fatalf("create first line: %v", err)
	}
	if _, err := svc.CreateLine(t.Context(), CreateLineInput{
		Name:          "Shinbundang",
		Color:         "bg-red-600",
		UpStationID:   5,
		DownStationID: 6,
		Distance:      7,
	}); err != nil {
		t.Fatalf("create second line: %v", err)
	}

	if _, err := svc.UpdateLine(t.Context(), first.ID, UpdateLineInput{Name: "Shinbundang", Color: "bg-red-600"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := svc.UpdateLine(t.Context(), first.ID, UpdateLineInput{Name: "", Color: "bg-red-600"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpdateLine(t.Context(), 999, UpdateLineInput{Name: "Ghost", Color: "bg-gray-600"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLineService_DeleteLine(t *testing.T) {
	svc, _, _ := newMemoryLineService()

	created, err := svc.CreateLine(t.Context(), validCreateLineInput())
	if err != nil {
		t.Fatalf("create line: %v", err)
	}

	if err := svc.DeleteLine(t.Context(), created.ID); err != nil {
		t.Fatalf("delete line: %v", err)
	}
	if _, err := svc.GetLine(t.Context(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteLine(t.Context(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	// The name is free again once the line is gone.
	if _, err := svc.CreateLine(t.Context(), validCreateLineInput()); err != nil {
		t.Fatalf("recreate line after delete: %v", err)
	}
}
