package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialType distinguishes how a material enters the system.
type MaterialType string

const (
	MaterialPurchasable MaterialType = "purchasable"
	MaterialReceivable  MaterialType = "receivable"
)

// ClientType scopes a catalogue entry to a client's material master.
type ClientType string

const (
	ClientSEC   ClientType = "sec"
	ClientOther ClientType = "other"
)

// Material is a catalogue entry extended with warehouse stock levels.
type Material struct {
	ID           uuid.UUID      `json:"id"`
	Code         string         `json:"code"`
	Description  string         `json:"description"`
	Unit         string         `json:"unit"`
	MaterialType MaterialType   `json:"material_type"`
	ClientType   ClientType     `json:"client_type"`
	Attributes   map[string]any `json:"attributes,omitempty"`

	UnitCost decimal.Decimal `json:"unit_cost"`

	TotalStock     int `json:"total_stock"`
	AvailableStock int `json:"available_stock"`
	ReservedStock  int `json:"reserved_stock"`
	MinimumStock   int `json:"minimum_stock"`
	MaximumStock   int `json:"maximum_stock"`
	ReorderPoint   int `json:"reorder_point"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveStock is the quantity stock evaluation runs against: available
// stock when the material tracks reservations, total stock otherwise.
func (m *Material) EffectiveStock() int {
	if m.ReservedStock > 0 || m.AvailableStock > 0 {
		return m.AvailableStock
	}
	return m.TotalStock
}

// StockValue is the current valuation of on-hand stock.
func (m *Material) StockValue() decimal.Decimal {
	return m.UnitCost.Mul(decimal.NewFromInt(int64(m.TotalStock)))
}

// Clone returns a copy safe to hand outside the store.
func (m *Material) Clone() *Material {
	c := *m
	if m.Attributes != nil {
		c.Attributes = make(map[string]any, len(m.Attributes))
		for k, v := range m.Attributes {
			c.Attributes[k] = v
		}
	}
	return &c
}
