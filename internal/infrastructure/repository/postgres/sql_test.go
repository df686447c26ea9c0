package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches unique violation code", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "ux_lines_name_active"`}
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("matches wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert line: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for wrapped unique violation")
		}
	})

	t.Run("ignores foreign key violation", func(t *testing.T) {
		err := &pq.Error{Code: "23503"}
		if isUniqueViolation(err) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isUniqueViolation(fakeErr("pq: relation lines does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get line: %w", sql.ErrNoRows)) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestGroupSectionsByLine(t *testing.T) {
	rows := []sectionRow{
		{ID: 10, LineID: 1, UpStationID: 1, UpStationName: "Gangnam", DownStationID: 2, DownStationName: "Yeoksam", Distance: 10},
		{ID: 11, LineID: 2, UpStationID: 5, UpStationName: "Pangyo", DownStationID: 6, DownStationName: "Jeongja", Distance: 7},
		{ID: 12, LineID: 1, UpStationID: 2, UpStationName: "Yeoksam", DownStationID: 3, DownStationName: "Seolleung", Distance: 5},
	}

	got := groupSectionsByLine(rows)
	if len(got[1]) != 2 || len(got[2]) != 1 {
		t.Fatalf("unexpected grouping: %+v", got)
	}
	if got[1][1].UpStation.Name != "Yeoksam" || got[1][1].DownStation.ID != 3 || got[1][1].Distance != 5 {
		t.Fatalf("unexpected mapped section: %+v", got[1][1])
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func TestMissingIDs(t *testing.T) {
	if got := missingIDs([]int64{1, 2}, []int64{2, 1}); len(got) != 0 {
		t.Fatalf("expected no missing ids, got %v", got)
	}
	got := missingIDs([]int64{1, 2, 3}, []int64{2})
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("unexpected missing ids: %v", got)
	}
}
