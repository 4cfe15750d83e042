package model

import (
	"time"

	"github.com/google/uuid"
)

// StockStatus classifies a material's stock position.
type StockStatus string

const (
	StockInStock     StockStatus = "in-stock"
	StockLow         StockStatus = "low-stock"
	StockOut         StockStatus = "out-of-stock"
	StockOverstocked StockStatus = "overstocked"
)

// Alert types and severities.
const (
	AlertLowStock    = "low-stock"
	AlertOutOfStock  = "out-of-stock"
	AlertOverstocked = "overstocked"
	AlertExpiring    = "expiring"

	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// StockAlert is derived from current stock levels on each evaluation pass;
// it is never persisted independently.
type StockAlert struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	Severity            string    `json:"severity"`
	MaterialID          uuid.UUID `json:"material_id"`
	MaterialCode        string    `json:"material_code"`
	MaterialDescription string    `json:"material_description"`
	CurrentStock        int       `json:"current_stock"`
	ThresholdValue      int       `json:"threshold_value"`
	Message             string    `json:"message"`
	ActionRequired      string    `json:"action_required"`
	DateDetected        time.Time `json:"date_detected"`
	IsActive            bool      `json:"is_active"`
}
