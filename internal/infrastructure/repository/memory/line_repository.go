package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/subway-lines/internal/domain/line"
)

type LineRepository struct {
	mu            sync.RWMutex
	items         map[int64]line.Line
	orders        []int64
	nextID        int64
	nextSectionID int64
	now           func() time.Time
}

func NewLineRepository() *LineRepository {
	return &LineRepository{
		items: make(map[int64]line.Line),
		now:   time.Now,
	}
}

func (r *LineRepository) List(_ context.Context) ([]line.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]line.Line, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneLine(r.items[id]))
	}

	return out, nil
}

func (r *LineRepository) GetByID(_ context.Context, lineID int64) (line.Line, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[lineID]
	if !ok {
		return line.Line{}, false, nil
	}

	return cloneLine(item), true, nil
}

func (r *LineRepository) GetByName(_ context.Context, name string) (line.Line, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimSpace(name)
	for _, id := range r.orders {
		if item := r.items[id]; item.Name == name {
			return cloneLine(item), true, nil
		}
	}

	return line.Line{}, false, nil
}

func (r *LineRepository) ExistsByStation(_ context.Context, stationID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		for _, s := range item.Sections {
			if s.UpStation.ID == stationID || s.DownStation.ID == stationID {
				return true, nil
			}
		}
	}

	return false, nil
}

func (r *LineRepository) Create(_ context.Context, item line.Line) (line.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTakenLocked(item.Name, 0) {
		return line.Line{}, fmt.Errorf("%w: %s", line.ErrDuplicateName, item.Name)
	}

	now := r.now().UTC()
	r.nextID++
	item = cloneLine(item)
	item.ID = r.nextID
	item.CreatedAt = now
	item.UpdatedAt = now
	for i := range item.Sections {
		r.nextSectionID++
		item.Sections[i].ID = r.nextSectionID
	}

	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)

	return cloneLine(item), nil
}

func (r *LineRepository) Update(_ context.Context, item line.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("%w: line=%d", line.ErrNotFound, item.ID)
	}
	if r.nameTakenLocked(item.Name, item.ID) {
		return fmt.Errorf("%w: %s", line.ErrDuplicateName, item.Name)
	}

	current.Name = item.Name
	current.Color = item.Color
	current.UpdatedAt = r.now().UTC()
	r.items[item.ID] = current

	return nil
}

func (r *LineRepository) Delete(_ context.Context, lineID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[lineID]; !ok {
		return fmt.Errorf("%w: line=%d", line.ErrNotFound, lineID)
	}

	delete(r.items, lineID)
	r.orders = removeID(r.orders, lineID)
	return nil
}

func (r *LineRepository) nameTakenLocked(name string, exceptID int64) bool {
	for id, existing := range r.items {
		if id != exceptID && existing.Name == name {
			return true
		}
	}
	return false
}

func cloneLine(item line.Line) line.Line {
	item.Sections = append([]line.Section(nil), item.Sections...)
	return item
}
