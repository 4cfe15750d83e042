package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Adjustment types accepted from callers. A set-absolute request is resolved
// into an increase or decrease against the current level before it is stored.
const (
	AdjustmentIncrease    = "increase"
	AdjustmentDecrease    = "decrease"
	AdjustmentSetAbsolute = "set-absolute"
)

// StockAdjustment is a one-shot manual correction to a material's stock.
// Quantity always holds the delta actually applied, not the requested one.
type StockAdjustment struct {
	ID               uuid.UUID `json:"id"`
	AdjustmentNumber string    `json:"adjustment_number"`
	MaterialID       uuid.UUID `json:"material_id"`
	WarehouseID      string    `json:"warehouse_id"`
	AdjustmentType   string    `json:"adjustment_type"` // increase or decrease once resolved
	Quantity         int       `json:"quantity"`
	Reason           string    `json:"reason"`
	Notes            string    `json:"notes,omitempty"`
	PerformedBy      string    `json:"performed_by"`
	PerformedDate    time.Time `json:"performed_date"`
	Status           string    `json:"status"`
}

// Movement types.
const (
	MovementReceipt  = "receipt"
	MovementIssue    = "issue"
	MovementTransfer = "transfer"
	MovementReturn   = "return"
	MovementWriteOff = "write-off"
)

// MovementLocation references one end of a stock movement.
type MovementLocation struct {
	Type string `json:"type"` // warehouse, work-order, supplier
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MovementRef points at the entity that caused the movement.
type MovementRef struct {
	Type      string `json:"type"` // adjustment, requisition, work-order
	ID        string `json:"id"`
	Reference string `json:"reference"`
}

// MaterialMovement is the immutable audit record of a stock quantity change.
// One movement is written per stock-affecting operation.
type MaterialMovement struct {
	ID                  uuid.UUID        `json:"id"`
	MovementNumber      string           `json:"movement_number"`
	MaterialID          uuid.UUID        `json:"material_id"`
	MaterialCode        string           `json:"material_code"`
	MaterialDescription string           `json:"material_description"`
	MovementType        string           `json:"movement_type"`
	Quantity            int              `json:"quantity"`
	Unit                string           `json:"unit"`
	FromLocation        MovementLocation `json:"from_location"`
	ToLocation          MovementLocation `json:"to_location"`
	RelatedEntity       MovementRef      `json:"related_entity"`
	Cost                decimal.Decimal  `json:"cost"`
	PerformedBy         string           `json:"performed_by"`
	PerformedDate       time.Time        `json:"performed_date"`
	Notes               string           `json:"notes,omitempty"`
}
