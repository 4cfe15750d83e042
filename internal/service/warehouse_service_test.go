package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateWarehouseRejectsDuplicateCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.warehouses.Create(ctx, "tester", CreateWarehouseRequest{Code: "WH-MAIN", Name: "Main warehouse"})
	require.NoError(t, err)

	_, err = f.warehouses.Create(ctx, "tester", CreateWarehouseRequest{Code: "WH-MAIN", Name: "Shadow"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDefaultWarehouseHandoff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.warehouses.Create(ctx, "tester", CreateWarehouseRequest{Code: "WH-A", Name: "A", IsDefault: true})
	require.NoError(t, err)

	second, err := f.warehouses.Create(ctx, "tester", CreateWarehouseRequest{Code: "WH-B", Name: "B", IsDefault: true})
	require.NoError(t, err)
	require.True(t, second.IsDefault)

	// creating a new default demotes the previous one
	got, err := f.warehouses.Get(ctx, first.ID.String())
	require.NoError(t, err)
	require.False(t, got.IsDefault)

	makeDefault := true
	_, err = f.warehouses.Update(ctx, "tester", first.ID.String(), UpdateWarehouseRequest{IsDefault: &makeDefault})
	require.NoError(t, err)

	got, err = f.warehouses.Get(ctx, second.ID.String())
	require.NoError(t, err)
	require.False(t, got.IsDefault)
}

func TestUpdateWarehousePatchesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w, err := f.warehouses.Create(ctx, "tester", CreateWarehouseRequest{Code: "WH-C", Name: "C", Capacity: 100})
	require.NoError(t, err)

	name := "Central store"
	capacity := 250
	updated, err := f.warehouses.Update(ctx, "tester", w.ID.String(), UpdateWarehouseRequest{Name: &name, Capacity: &capacity})
	require.NoError(t, err)
	require.Equal(t, "Central store", updated.Name)
	require.Equal(t, 250, updated.Capacity)
	require.Equal(t, "WH-C", updated.Code)
}
