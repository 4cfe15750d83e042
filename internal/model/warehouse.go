package model

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a physical storage location with a bounded capacity.
type Warehouse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Capacity  int       `json:"capacity"`
	Used      int       `json:"used"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UtilizationPercentage reports used capacity as an integer percentage.
// A zero-capacity warehouse reports 0 rather than dividing by zero.
func (w *Warehouse) UtilizationPercentage() int {
	if w.Capacity <= 0 {
		return 0
	}
	return w.Used * 100 / w.Capacity
}
