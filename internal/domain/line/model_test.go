package line

import (
	"errors"
	"testing"

	"github.com/riskibarqy/subway-lines/internal/domain/station"
)

func st(id int64, name string) station.Station {
	return station.Station{ID: id, Name: name}
}

func TestLineValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Line)
		targetErr error
		wantErr   bool
	}{
		{
			name:   "valid line",
			mutate: func(_ *Line) {},
		},
		{
			name:    "missing name",
			mutate:  func(l *Line) { l.Name = "" },
			wantErr: true,
		},
		{
			name:    "missing color",
			mutate:  func(l *Line) { l.Color = "" },
			wantErr: true,
		},
		{
			name:      "no sections",
			mutate:    func(l *Line) { l.Sections = nil },
			targetErr: ErrNoSections,
			wantErr:   true,
		},
		{
			name:      "same stations",
			mutate:    func(l *Line) { l.Sections[0].DownStation = l.Sections[0].UpStation },
			targetErr: ErrSameStations,
			wantErr:   true,
		},
		{
			name:      "zero distance",
			mutate:    func(l *Line) { l.Sections[0].Distance = 0 },
			targetErr: ErrInvalidDistance,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New("Line 2", "green", Section{UpStation: st(1, "Gangnam"), DownStation: st(2, "Yeoksam"), Distance: 10})
			tt.mutate(&l)

			err := l.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.targetErr != nil && !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestLineUpdate(t *testing.T) {
	l := New("Line 2", "green", Section{UpStation: st(1, "Gangnam"), DownStation: st(2, "Yeoksam"), Distance: 10})
	l.Update("  Shinbundang ", " red ")

	if l.Name != "Shinbundang" || l.Color != "red" {
		t.Fatalf("unexpected line after update: name=%q color=%q", l.Name, l.Color)
	}
	if len(l.Sections) != 1 {
		t.Fatalf("update must keep sections, got %d", len(l.Sections))
	}
}

func TestLineStations_OrdersByChain(t *testing.T) {
	l := Line{
		Name:  "Line 2",
		Color: "green",
		Sections: []Section{
			{UpStation: st(2, "Yeoksam"), DownStation: st(3, "Seolleung"), Distance: 5},
			{UpStation: st(1, "Gangnam"), DownStation: st(2, "Yeoksam"), Distance: 10},
			{UpStation: st(3, "Seolleung"), DownStation: st(4, "Samseong"), Distance: 7},
		},
	}

	got, err := l.Stations()
	if err != nil {
		t.Fatalf("stations: %v", err)
	}

	want := []int64{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("unexpected station count: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("unexpected station at %d: got=%d want=%d", i, got[i].ID, want[i])
		}
	}
}

func TestLineStations_RejectsBrokenPaths(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
	}{
		{
			name: "cycle",
			sections: []Section{
				{UpStation: st(1, "A"), DownStation: st(2, "B"), Distance: 1},
				{UpStation: st(2, "B"), DownStation: st(1, "A"), Distance: 1},
			},
		},
		{
			name: "disconnected",
			sections: []Section{
				{UpStation: st(1, "A"), DownStation: st(2, "B"), Distance: 1},
				{UpStation: st(3, "C"), DownStation: st(4, "D"), Distance: 1},
			},
		},
		{
			name: "fork",
			sections: []Section{
				{UpStation: st(1, "A"), DownStation: st(2, "B"), Distance: 1},
				{UpStation: st(1, "A"), DownStation: st(3, "C"), Distance: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Line{Sections: tt.sections}.Stations()
			if !errors.Is(err, ErrBrokenSections) {
				t.Fatalf("expected ErrBrokenSections, got %v", err)
			}
		})
	}
}

func TestLineStationIDs_Deduplicates(t *testing.T) {
	l := Line{Sections: []Section{
		{UpStation: st(1, "A"), DownStation: st(2, "B"), Distance: 1},
		{UpStation: st(2, "B"), DownStation: st(3, "C"), Distance: 1},
	}}

	got := l.StationIDs()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("unexpected station ids: %v", got)
	}
}
