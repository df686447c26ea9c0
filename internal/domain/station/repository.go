package station

import "context"

// Repository describes station persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Station, error)
	GetByID(ctx context.Context, stationID int64) (Station, bool, error)
	Create(ctx context.Context, item Station) (Station, error)
	Delete(ctx context.Context, stationID int64) error
}
