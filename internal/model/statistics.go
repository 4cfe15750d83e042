package model

import "github.com/shopspring/decimal"

// DashboardData is the material operations summary computed from live state.
type DashboardData struct {
	TotalMaterials       int                `json:"total_materials"`
	TotalValue           decimal.Decimal    `json:"total_value"`
	LowStockItems        int                `json:"low_stock_items"`
	OutOfStockItems      int                `json:"out_of_stock_items"`
	PendingRequisitions  int                `json:"pending_requisitions"`
	RecentMovements      []MaterialMovement `json:"recent_movements"`
	StockAlerts          []StockAlert       `json:"stock_alerts"`
	WorkOrdersByStatus   map[string]int     `json:"work_orders_by_status"`
	OpenWorkOrders       int                `json:"open_work_orders"`
	WarehouseUtilization []WarehouseUsage   `json:"warehouse_utilization"`
}

// WarehouseUsage summarizes one warehouse's capacity position.
type WarehouseUsage struct {
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Capacity      int    `json:"capacity"`
	Used          int    `json:"used"`
	Percentage    int    `json:"utilization_percentage"`
}
