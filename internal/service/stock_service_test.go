package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"backend/internal/model"
)

func TestClassifyStock(t *testing.T) {
	cases := []struct {
		name     string
		material model.Material
		want     model.StockStatus
	}{
		{"below minimum", model.Material{TotalStock: 5, MinimumStock: 10}, model.StockLow},
		{"at minimum", model.Material{TotalStock: 10, MinimumStock: 10}, model.StockLow},
		{"healthy", model.Material{TotalStock: 50, MinimumStock: 10, MaximumStock: 100}, model.StockInStock},
		{"above maximum", model.Material{TotalStock: 150, MaximumStock: 100}, model.StockOverstocked},
		{"zero stock", model.Material{TotalStock: 0, MinimumStock: 10}, model.StockOut},
		{"zero stock beats overstock check", model.Material{TotalStock: 0, MaximumStock: 0}, model.StockOut},
		{"no thresholds configured", model.Material{TotalStock: 7}, model.StockInStock},
		{"available stock drives classification", model.Material{TotalStock: 100, AvailableStock: 3, ReservedStock: 97, MinimumStock: 10}, model.StockLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyStock(&tc.material))
		})
	}
}

func TestAlertsSeverityAndUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out := f.createMaterial(t, "MAT-OUT", 0, 10, 0)
	low := f.createMaterial(t, "MAT-LOW", 5, 10, 0)
	over := f.createMaterial(t, "MAT-OVER", 150, 10, 100)
	f.createMaterial(t, "MAT-OK", 50, 10, 100)

	alerts := f.stock.Alerts(ctx)
	require.Len(t, alerts, 3)

	byMaterial := map[string]model.StockAlert{}
	for _, a := range alerts {
		byMaterial[a.MaterialCode] = a
	}

	require.Equal(t, model.SeverityCritical, byMaterial["MAT-OUT"].Severity)
	require.Equal(t, model.AlertOutOfStock, byMaterial["MAT-OUT"].Type)
	require.Equal(t, model.SeverityHigh, byMaterial["MAT-LOW"].Severity)
	require.Equal(t, model.AlertLowStock, byMaterial["MAT-LOW"].Type)
	require.Equal(t, model.SeverityMedium, byMaterial["MAT-OVER"].Severity)
	require.Equal(t, model.AlertOverstocked, byMaterial["MAT-OVER"].Type)

	require.Equal(t, out.ID, byMaterial["MAT-OUT"].MaterialID)
	require.Equal(t, low.ID, byMaterial["MAT-LOW"].MaterialID)
	require.Equal(t, over.ID, byMaterial["MAT-OVER"].MaterialID)
}

func TestAdjustIncrease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-001", 10, 0, 0)

	adj, err := f.stock.Adjust(ctx, "tester", AdjustStockRequest{
		MaterialID:     m.ID.String(),
		AdjustmentType: model.AdjustmentIncrease,
		Quantity:       5,
		Reason:         "cycle count correction",
	})
	require.NoError(t, err)
	require.Equal(t, model.AdjustmentIncrease, adj.AdjustmentType)
	require.Equal(t, 5, adj.Quantity)
	require.Regexp(t, `^ADJ-\d{6}-0001$`, adj.AdjustmentNumber)

	got, err := f.materials.Get(ctx, m.ID.String())
	require.NoError(t, err)
	require.Equal(t, 15, got.TotalStock)

	movements, total, err := f.stock.Movements(ctx, MovementFilter{MaterialID: m.ID.String()})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, model.MovementReceipt, movements[0].MovementType)
	require.Equal(t, 5, movements[0].Quantity)
	require.Equal(t, "adjustment", movements[0].RelatedEntity.Type)
}

func TestAdjustKeepsAvailableStockConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-INV", 100, 10, 0)

	_, err := f.stock.Adjust(ctx, "tester", AdjustStockRequest{
		MaterialID:     m.ID.String(),
		AdjustmentType: model.AdjustmentIncrease,
		Quantity:       2,
		Reason:         "cycle count correction",
	})
	require.NoError(t, err)

	got, err := f.materials.Get(ctx, m.ID.String())
	require.NoError(t, err)
	require.Equal(t, 102, got.TotalStock)
	require.Equal(t, 102, got.AvailableStock)
	require.Equal(t, got.TotalStock-got.ReservedStock, got.AvailableStock)
	require.Equal(t, 102, got.EffectiveStock())
	require.Equal(t, model.StockInStock, ClassifyStock(got))
	require.Empty(t, f.stock.Alerts(ctx))

	_, err = f.stock.Adjust(ctx, "tester", AdjustStockRequest{
		MaterialID:     m.ID.String(),
		AdjustmentType: model.AdjustmentDecrease,
		Quantity:       30,
		Reason:         "damaged in storage",
	})
	require.NoError(t, err)

	got, err = f.materials.Get(ctx, m.ID.String())
	require.NoError(t, err)
	require.Equal(t, 72, got.TotalStock)
	require.Equal(t, got.TotalStock-got.ReservedStock, got.AvailableStock)
}

func TestAdjustDecreaseClampsAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-002", 4, 0, 0)

	adj, err := f.stock.Adjust(ctx, "tester", AdjustStockRequest{
		MaterialID:     m.ID.String(),
		AdjustmentType: model.AdjustmentDecrease,
		Quantity:       10,
		Reason:         "damaged in storage",
	})
	require.NoError(t, err)
	require.Equal(t, model.AdjustmentDecrease, adj.AdjustmentType)
	require.Equal(t, 4, adj.Quantity) // applied delta, not the requested one

	got, err := f.materials.Get(ctx, m.ID.String())
	require.NoError(t, err)
	require.Equal(t, 0, got.TotalStock)

	movements, _, err := f.stock.Movements(ctx, MovementFilter{MaterialID: m.ID.String()})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	require.Equal(t, model.MovementWriteOff, movements[0].MovementType)
	require.Equal(t, 4, movements[0].Quantity)
}

func TestAdjustSetAbsoluteResolvesDirection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-003", 10, 0, 0)

	down, err := f.stock.Adjust(ctx, "tester", AdjustStockRequest{
		MaterialID:     m.ID.String(),
		AdjustmentType: model.AdjustmentSetAbsolute,
		Quantity:       4,
		Reason:         "physical recount",
	})
	require.NoError(t, err)
	require.Equal(t, model.AdjustmentDecrease, down.AdjustmentType)
	require.Equal(t, 6, down.Quantity)

	up, err := f.stock.Adjust(ctx, "tester", AdjustStockRequest{
		MaterialID:     m.ID.String(),
		AdjustmentType: model.AdjustmentSetAbsolute,
		Quantity:       20,
		Reason:         "physical recount",
	})
	require.NoError(t, err)
	require.Equal(t, model.AdjustmentIncrease, up.AdjustmentType)
	require.Equal(t, 16, up.Quantity)

	got, err := f.materials.Get(ctx, m.ID.String())
	require.NoError(t, err)
	require.Equal(t, 20, got.TotalStock)
}

func TestAdjustWritesExactlyOneMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-004", 10, 0, 0)

	for i := 0; i < 3; i++ {
		_, err := f.stock.Adjust(ctx, "tester", AdjustStockRequest{
			MaterialID:     m.ID.String(),
			AdjustmentType: model.AdjustmentIncrease,
			Quantity:       1,
			Reason:         "receipt without PO",
		})
		require.NoError(t, err)
	}

	movements, total, err := f.stock.Movements(ctx, MovementFilter{MaterialID: m.ID.String()})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, movements, 3)

	adjustments, adjTotal, err := f.stock.Adjustments(ctx, 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 3, adjTotal)
	require.Len(t, adjustments, 3)
}

func TestLevelsClassifyEveryMaterial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createMaterial(t, "MAT-A", 0, 5, 0)
	f.createMaterial(t, "MAT-B", 50, 5, 100)

	levels := f.stock.Levels(ctx)
	require.Len(t, levels, 2)

	byCode := map[string]StockLevel{}
	for _, l := range levels {
		byCode[l.Material.Code] = l
	}
	require.Equal(t, model.StockOut, byCode["MAT-A"].Status)
	require.Equal(t, model.StockInStock, byCode["MAT-B"].Status)
}
