package service

import (
	"context"

	"github.com/shopspring/decimal"

	"backend/internal/model"
	"backend/internal/repository"
)

type StatisticsService interface {
	Dashboard(ctx context.Context) (*model.DashboardData, error)
}

type statisticsService struct {
	materials    repository.MaterialRepository
	movements    repository.MovementRepository
	requisitions repository.RequisitionRepository
	workOrders   repository.WorkOrderRepository
	warehouses   repository.WarehouseRepository
	stock        StockService
}

func NewStatisticsService(
	materials repository.MaterialRepository,
	movements repository.MovementRepository,
	requisitions repository.RequisitionRepository,
	workOrders repository.WorkOrderRepository,
	warehouses repository.WarehouseRepository,
	stock StockService,
) StatisticsService {
	return &statisticsService{
		materials:    materials,
		movements:    movements,
		requisitions: requisitions,
		workOrders:   workOrders,
		warehouses:   warehouses,
		stock:        stock,
	}
}

// Dashboard assembles the operations summary from one snapshot of live state.
// Nothing here is cached; every call reflects the state at call time.
func (s *statisticsService) Dashboard(ctx context.Context) (*model.DashboardData, error) {
	data := &model.DashboardData{
		WorkOrdersByStatus: make(map[string]int),
		TotalValue:         decimal.Zero,
	}

	for _, m := range s.materials.All(ctx) {
		data.TotalMaterials++
		data.TotalValue = data.TotalValue.Add(m.StockValue())
		switch ClassifyStock(&m) {
		case model.StockLow:
			data.LowStockItems++
		case model.StockOut:
			data.OutOfStockItems++
		}
	}

	data.PendingRequisitions = s.requisitions.CountByStatus(ctx, model.RequisitionPending)
	data.RecentMovements = s.movements.RecentMovements(ctx, 10)
	data.StockAlerts = s.stock.Alerts(ctx)

	for status, n := range s.workOrders.CountByStatus(ctx) {
		data.WorkOrdersByStatus[string(status)] = n
		switch status {
		case model.StatusPending, model.StatusInProgress, model.StatusOnHold:
			data.OpenWorkOrders += n
		}
	}

	for _, w := range s.warehouses.List(ctx) {
		data.WarehouseUtilization = append(data.WarehouseUtilization, model.WarehouseUsage{
			WarehouseID:   w.ID.String(),
			WarehouseName: w.Name,
			Capacity:      w.Capacity,
			Used:          w.Used,
			Percentage:    w.UtilizationPercentage(),
		})
	}

	return data, nil
}
