package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
)

func TestDashboardAggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createMaterial(t, "MAT-D1", 0, 5, 0) // out of stock
	f.createMaterial(t, "MAT-D2", 3, 5, 0) // low stock
	ok := f.createMaterial(t, "MAT-D3", 50, 5, 100)

	wo := f.createWorkOrder(t, "Open order")
	_, err := f.workOrders.UpdateStatus(ctx, "tester", wo.ID.String(), UpdateStatusRequest{Status: model.StatusInProgress})
	require.NoError(t, err)
	f.createWorkOrder(t, "Pending order")

	approvalRequired := true
	_, err = f.requisitions.Submit(ctx, "requester", SubmitRequisitionRequest{
		ApprovalRequired: &approvalRequired,
		Items:            []RequisitionItemRequest{{MaterialID: ok.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = f.stock.Adjust(ctx, "tester", AdjustStockRequest{
		MaterialID:     ok.ID.String(),
		AdjustmentType: model.AdjustmentIncrease,
		Quantity:       10,
		Reason:         "found during audit",
	})
	require.NoError(t, err)

	_, err = f.warehouses.Create(ctx, "tester", CreateWarehouseRequest{Code: "WH-D", Name: "D", Capacity: 200})
	require.NoError(t, err)

	data, err := f.statistics.Dashboard(ctx)
	require.NoError(t, err)

	require.Equal(t, 3, data.TotalMaterials)
	require.Equal(t, 1, data.LowStockItems)
	require.Equal(t, 1, data.OutOfStockItems)
	require.Equal(t, 1, data.PendingRequisitions)
	require.Equal(t, 2, data.OpenWorkOrders)
	require.Equal(t, 1, data.WorkOrdersByStatus[string(model.StatusPending)])
	require.Equal(t, 1, data.WorkOrdersByStatus[string(model.StatusInProgress)])
	require.Len(t, data.StockAlerts, 2)
	require.Len(t, data.RecentMovements, 1)
	require.Len(t, data.WarehouseUtilization, 1)

	// 0*10 + 3*10 + 60*10 after the adjustment
	require.True(t, data.TotalValue.Equal(decimal.NewFromInt(630)))
}
