package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/subway-lines/internal/domain/line"
	"github.com/riskibarqy/subway-lines/internal/domain/station"
	basecache "github.com/riskibarqy/subway-lines/internal/platform/cache"
)

const (
	linePrefix    = "line:"
	stationPrefix = "station:"
)

// LineRepository caches line reads. Name and station-usage lookups guard
// writes, so they always go to the next repository.
type LineRepository struct {
	next  line.Repository
	cache *basecache.Store
}

func NewLineRepository(next line.Repository, cache *basecache.Store) *LineRepository {
	return &LineRepository{next: next, cache: cache}
}

func (r *LineRepository) List(ctx context.Context) ([]line.Line, error) {
	v, err := r.cache.GetOrLoad(ctx, linePrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return cloneLines(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]line.Line)
	return cloneLines(items), nil
}

func (r *LineRepository) GetByID(ctx context.Context, lineID int64) (line.Line, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, lineKey(lineID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, lineID)
		if err != nil {
			return nil, err
		}
		return cachedLineByID{value: cloneLine(item), exists: exists}, nil
	})
	if err != nil {
		return line.Line{}, false, err
	}

	cached, _ := v.(cachedLineByID)
	return cloneLine(cached.value), cached.exists, nil
}

func (r *LineRepository) GetByName(ctx context.Context, name string) (line.Line, bool, error) {
	return r.next.GetByName(ctx, name)
}

func (r *LineRepository) ExistsByStation(ctx context.Context, stationID int64) (bool, error) {
	return r.next.ExistsByStation(ctx, stationID)
}

func (r *LineRepository) Create(ctx context.Context, item line.Line) (line.Line, error) {
	created, err := r.next.Create(ctx, item)
	if err != nil {
		return line.Line{}, err
	}
	r.cache.DeletePrefix(ctx, linePrefix)
	return created, nil
}

func (r *LineRepository) Update(ctx context.Context, item line.Line) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, linePrefix)
	return nil
}

func (r *LineRepository) Delete(ctx context.Context, lineID int64) error {
	if err := r.next.Delete(ctx, lineID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, linePrefix)
	return nil
}

type cachedLineByID struct {
	value  line.Line
	exists bool
}

func lineKey(lineID int64) string {
	return linePrefix + "id:" + strconv.FormatInt(lineID, 10)
}

func cloneLine(item line.Line) line.Line {
	item.Sections = append([]line.Section(nil), item.Sections...)
	return item
}

func cloneLines(items []line.Line) []line.Line {
	out := make([]line.Line, 0, len(items))
	for _, item := range items {
		out = append(out, cloneLine(item))
	}
	return out
}

type StationRepository struct {
	next  station.Repository
	cache *basecache.Store
}

func NewStationRepository(next station.Repository, cache *basecache.Store) *StationRepository {
	return &StationRepository{next: next, cache: cache}
}

func (r *StationRepository) List(ctx context.Context) ([]station.Station, error) {
	v, err := r.cache.GetOrLoad(ctx, stationPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]station.Station(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]station.Station)
	return append([]station.Station(nil), items...), nil
}

func (r *StationRepository) GetByID(ctx context.Context, stationID int64) (station.Station, bool, error) {
	key := stationPrefix + "id:" + strconv.FormatInt(stationID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, stationID)
		if err != nil {
			return nil, err
		}
		return cachedStationByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return station.Station{}, false, err
	}

	cached, _ := v.(cachedStationByID)
	return cached.value, cached.exists, nil
}

func (r *StationRepository) Create(ctx context.Context, item station.Station) (station.Station, error) {
	created, err := r.next.Create(ctx, item)
	if err != nil {
		return station.Station{}, err
	}
	r.cache.DeletePrefix(ctx, stationPrefix)
	return created, nil
}

func (r *StationRepository) Delete(ctx context.Context, stationID int64) error {
	if err := r.next.Delete(ctx, stationID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, stationPrefix)
	return nil
}

type cachedStationByID struct {
	value  station.Station
	exists bool
}
