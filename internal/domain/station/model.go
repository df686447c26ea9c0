package station

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound      = errors.New("station not found")
	ErrDuplicateName = errors.New("station name already exists")
	ErrInUse         = errors.New("station is used by a line section")
)

// Station is a subway stop that sections of a line connect.
type Station struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Station) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("station name is required")
	}

	return nil
}
