package line

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/subway-lines/internal/domain/station"
)

var (
	ErrNotFound        = errors.New("line not found")
	ErrDuplicateName   = errors.New("line name already exists")
	ErrNoSections      = errors.New("line requires at least one section")
	ErrSameStations    = errors.New("section up and down stations must differ")
	ErrInvalidDistance = errors.New("section distance must be greater than zero")
	ErrBrokenSections  = errors.New("line sections do not form a single path")
)

// Section connects two stations of a line with a distance.
type Section struct {
	ID          int64
	UpStation   station.Station
	DownStation station.Station
	Distance    int
}

func (s Section) Validate() error {
	if s.UpStation.ID <= 0 {
		return fmt.Errorf("section up station is required")
	}
	if s.DownStation.ID <= 0 {
		return fmt.Errorf("section down station is required")
	}
	if s.UpStation.ID == s.DownStation.ID {
		return fmt.Errorf("%w: station=%d", ErrSameStations, s.UpStation.ID)
	}
	if s.Distance <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDistance, s.Distance)
	}

	return nil
}

// Line is a subway route made of ordered sections.
type Line struct {
	ID        int64
	Name      string
	Color     string
	Sections  []Section
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds a line with its first section.
func New(name, color string, first Section) Line {
	return Line{
		Name:     strings.TrimSpace(name),
		Color:    strings.TrimSpace(color),
		Sections: []Section{first},
	}
}

func (l Line) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("line name is required")
	}
	if l.Color == "" {
		return fmt.Errorf("line color is required")
	}
	if len(l.Sections) == 0 {
		return ErrNoSections
	}
	for _, s := range l.Sections {
		if err := s.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Update replaces the mutable attributes of the line.
func (l *Line) Update(name, color string) {
	l.Name = strings.TrimSpace(name)
	l.Color = strings.TrimSpace(color)
}

// Stations returns stations from the terminal up station to the terminal down
// station by chaining sections.
func (l Line) Stations() ([]station.Station, error) {
	if len(l.Sections) == 0 {
		return nil, nil
	}

	byUp := make(map[int64]Section, len(l.Sections))
	downIDs := make(map[int64]struct{}, len(l.Sections))
	for _, s := range l.Sections {
		if _, dup := byUp[s.UpStation.ID]; dup {
			return nil, fmt.Errorf("%w: station=%d starts more than one section", ErrBrokenSections, s.UpStation.ID)
		}
		byUp[s.UpStation.ID] = s
		downIDs[s.DownStation.ID] = struct{}{}
	}

	var head *Section
	for i := range l.Sections {
		if _, isDown := downIDs[l.Sections[i].UpStation.ID]; !isDown {
			if head != nil {
				return nil, fmt.Errorf("%w: more than one terminal up station", ErrBrokenSections)
			}
			head = &l.Sections[i]
		}
	}
	if head == nil {
		return nil, fmt.Errorf("%w: no terminal up station", ErrBrokenSections)
	}

	out := make([]station.Station, 0, len(l.Sections)+1)
	out = append(out, head.UpStation)
	current := *head
	for visited := 0; visited < len(l.Sections); visited++ {
		out = append(out, current.DownStation)
		next, ok := byUp[current.DownStation.ID]
		if !ok {
			break
		}
		current = next
	}
	if len(out) != len(l.Sections)+1 {
		return nil, fmt.Errorf("%w: %d of %d sections reachable", ErrBrokenSections, len(out)-1, len(l.Sections))
	}

	return out, nil
}

// StationIDs lists every station id referenced by the line's sections.
func (l Line) StationIDs() []int64 {
	seen := make(map[int64]struct{}, len(l.Sections)*2)
	out := make([]int64, 0, len(l.Sections)*2)
	for _, s := range l.Sections {
		for _, id := range []int64{s.UpStation.ID, s.DownStation.ID} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	return out
}
