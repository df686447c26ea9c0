package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/subway-lines/internal/domain/station"
)

type StationRepository struct {
	mu     sync.RWMutex
	items  map[int64]station.Station
	orders []int64
	nextID int64
	now    func() time.Time
}

func NewStationRepository(stations []station.Station) *StationRepository {
	r := &StationRepository{
		items:  make(map[int64]station.Station, len(stations)),
		orders: make([]int64, 0, len(stations)),
		now:    time.Now,
	}

	for _, s := range stations {
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
		r.items[s.ID] = s
		r.orders = append(r.orders, s.ID)
	}

	return r
}

func (r *StationRepository) List(_ context.Context) ([]station.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]station.Station, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *StationRepository) GetByID(_ context.Context, stationID int64) (station.Station, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[stationID]
	if !ok {
		return station.Station{}, false, nil
	}

	return s, true, nil
}

func (r *StationRepository) Create(_ context.Context, item station.Station) (station.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.TrimSpace(item.Name)
	for _, existing := range r.items {
		if existing.Name == name {
			return station.Station{}, fmt.Errorf("%w: %s", station.ErrDuplicateName, name)
		}
	}

	r.nextID++
	now := r.now().UTC()
	item.ID = r.nextID
	item.Name = name
	item.CreatedAt = now
	item.UpdatedAt = now

	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)

	return item, nil
}

func (r *StationRepository) Delete(_ context.Context, stationID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[stationID]; !ok {
		return fmt.Errorf("%w: station=%d", station.ErrNotFound, stationID)
	}

	delete(r.items, stationID)
	r.orders = removeID(r.orders, stationID)
	return nil
}

func removeID(ids []int64, target int64) []int64 {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
