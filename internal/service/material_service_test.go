package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
	"backend/internal/store"
)

func TestCreateMaterialRejectsDuplicateCode(t *testing.T) {
	f := newFixture(t)
	f.createMaterial(t, "CBL-16MM", 10, 0, 0)

	_, err := f.materials.Create(context.Background(), "tester", CreateMaterialRequest{
		Code:         "CBL-16MM",
		Description:  "Duplicate",
		Unit:         "m",
		MaterialType: model.MaterialPurchasable,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateMaterialRejectsAvailableAboveTotal(t *testing.T) {
	f := newFixture(t)

	_, err := f.materials.Create(context.Background(), "tester", CreateMaterialRequest{
		Code:           "CBL-25MM",
		Description:    "25mm cable",
		Unit:           "m",
		MaterialType:   model.MaterialPurchasable,
		TotalStock:     10,
		AvailableStock: 20,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateMaterialDefaultsAvailableToUnreserved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	catalog := f.createMaterial(t, "CBL-35MM", 100, 10, 0)
	require.Equal(t, 100, catalog.AvailableStock)
	require.Equal(t, 100, catalog.EffectiveStock())

	reserved, err := f.materials.Create(ctx, "tester", CreateMaterialRequest{
		Code:          "CBL-50MM",
		Description:   "50mm cable",
		Unit:          "m",
		MaterialType:  model.MaterialPurchasable,
		TotalStock:    100,
		ReservedStock: 30,
	})
	require.NoError(t, err)
	require.Equal(t, 70, reserved.AvailableStock)
	require.Equal(t, 70, reserved.EffectiveStock())
}

func TestUpdateMaterialPatchesThresholdsNotStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "FUS-100A", 40, 5, 80)

	minStock := 15
	cost := decimal.NewFromInt(25)
	updated, err := f.materials.Update(ctx, "tester", m.ID.String(), UpdateMaterialRequest{
		MinimumStock: &minStock,
		UnitCost:     &cost,
	})
	require.NoError(t, err)
	require.Equal(t, 15, updated.MinimumStock)
	require.True(t, updated.UnitCost.Equal(cost))
	require.Equal(t, 40, updated.TotalStock)
}

func TestDeleteMaterial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "BRK-63A", 12, 0, 0)

	require.NoError(t, f.materials.Delete(ctx, "tester", m.ID.String()))

	_, err := f.materials.Get(ctx, m.ID.String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListMaterialsSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createMaterial(t, "CBL-16MM", 10, 0, 0)
	f.createMaterial(t, "FUS-100A", 10, 0, 0)

	results, total, err := f.materials.List(ctx, MaterialFilter{Search: "CBL"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "CBL-16MM", results[0].Code)
}
