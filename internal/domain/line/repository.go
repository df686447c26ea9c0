package line

import "context"

// Repository describes line persistence needs from use cases.
//
// Create returns the stored line with generated ids. Update and Delete report
// ErrNotFound when the line is absent and Create/Update report
// ErrDuplicateName when another live line already uses the name.
type Repository interface {
	List(ctx context.Context) ([]Line, error)
	GetByID(ctx context.Context, lineID int64) (Line, bool, error)
	GetByName(ctx context.Context, name string) (Line, bool, error)
	ExistsByStation(ctx context.Context, stationID int64) (bool, error)
	Create(ctx context.Context, item Line) (Line, error)
	Update(ctx context.Context, item Line) error
	Delete(ctx context.Context, lineID int64) error
}
