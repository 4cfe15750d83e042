package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/store"
)

// fixture wires the full service stack against a fresh in-memory store.
type fixture struct {
	store        *store.Store
	workOrders   WorkOrderService
	materials    MaterialService
	stock        StockService
	requisitions RequisitionService
	warehouses   WarehouseService
	statistics   StatisticsService
	audit        AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.New()
	txManager := repository.NewTransactionManager(st)
	workOrderRepo := repository.NewWorkOrderRepository(st)
	materialRepo := repository.NewMaterialRepository(st)
	movementRepo := repository.NewMovementRepository(st)
	requisitionRepo := repository.NewRequisitionRepository(st)
	warehouseRepo := repository.NewWarehouseRepository(st)
	auditRepo := repository.NewAuditRepository(st)

	stock := NewStockService(materialRepo, movementRepo, auditRepo, txManager, st)
	return &fixture{
		store:        st,
		workOrders:   NewWorkOrderService(workOrderRepo, auditRepo, txManager, st, model.DefaultProgressThresholds),
		materials:    NewMaterialService(materialRepo, auditRepo, txManager),
		stock:        stock,
		requisitions: NewRequisitionService(requisitionRepo, materialRepo, movementRepo, workOrderRepo, auditRepo, txManager, st),
		warehouses:   NewWarehouseService(warehouseRepo, auditRepo, txManager),
		statistics:   NewStatisticsService(materialRepo, movementRepo, requisitionRepo, workOrderRepo, warehouseRepo, stock),
		audit:        NewAuditService(auditRepo),
	}
}

func (f *fixture) createWorkOrder(t *testing.T, title string) *model.WorkOrder {
	t.Helper()
	wo, err := f.workOrders.Create(context.Background(), "tester", CreateWorkOrderRequest{Title: title})
	require.NoError(t, err)
	return wo
}

func (f *fixture) createMaterial(t *testing.T, code string, total, min, max int) *model.Material {
	t.Helper()
	m, err := f.materials.Create(context.Background(), "tester", CreateMaterialRequest{
		Code:         code,
		Description:  "Test material " + code,
		Unit:         "pcs",
		MaterialType: model.MaterialPurchasable,
		UnitCost:     decimal.NewFromInt(10),
		TotalStock:   total,
		MinimumStock: min,
		MaximumStock: max,
	})
	require.NoError(t, err)
	return m
}
