package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldservice/internal/apperr"
	"fieldservice/internal/model"
	"fieldservice/internal/optional"
	"fieldservice/internal/tenant"
)

func TestMaterialMutationsRequireTenant(t *testing.T) {
	f := newFixture(t)

	_, err := f.materials.Create(tenant.Anonymous(), f.jobA.ID, CreateMaterialInput{Name: "2x4 lumber"})
	assert.True(t, errors.Is(err, apperr.ErrMissingTenant))

	var count int64
	require.NoError(t, f.db.Model(&model.MaterialUsage{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMaterialCreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, f.user.ID)

	created, err := f.materials.Create(ctx, f.jobA.ID, CreateMaterialInput{
		Name:          "2x4 lumber",
		SKU:           "LBR-24",
		Quantity:      40,
		Unit:          "pcs",
		UnitCostCents: 525,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(40), created.Quantity)

	materials, err := f.materials.List(ctx, f.jobA.ID)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "LBR-24", materials[0].SKU)
}

func TestMaterialQuantityChangeAppendsActivity(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, f.user.ID)

	created, err := f.materials.Create(ctx, f.jobA.ID, CreateMaterialInput{Name: "Concrete mix", Quantity: 10})
	require.NoError(t, err)

	_, err = f.materials.Update(ctx, f.jobA.ID, created.ID, UpdateMaterialInput{
		Quantity: optional.Of(float64(12)),
	})
	require.NoError(t, err)

	var entries []model.ActivityLog
	require.NoError(t, f.db.Where("action = ?", model.ActionMaterialAdjusted).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(10), entries[0].Meta["from"])
	assert.Equal(t, float64(12), entries[0].Meta["to"])

	// Updating notes only does not log an adjustment
	_, err = f.materials.Update(ctx, f.jobA.ID, created.ID, UpdateMaterialInput{
		Notes: optional.Of("supplier restocked"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.countActivity(t, model.ActionMaterialAdjusted))
}

func TestMaterialCrossTenantIsolation(t *testing.T) {
	f := newFixture(t)
	ctxA := tenant.New(1, 0)
	ctxB := tenant.New(2, 0)

	created, err := f.materials.Create(ctxA, f.jobA.ID, CreateMaterialInput{Name: "Copper pipe", Quantity: 3})
	require.NoError(t, err)

	_, err = f.materials.Update(ctxB, f.jobA.ID, created.ID, UpdateMaterialInput{Quantity: optional.Of(float64(99))})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	err = f.materials.Remove(ctxB, f.jobA.ID, created.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestMaterialRemoveNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, 0)

	err := f.materials.Remove(ctx, f.jobA.ID, 404)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestMaterialValidation(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, 0)

	_, err := f.materials.Create(ctx, f.jobA.ID, CreateMaterialInput{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.materials.Create(ctx, f.jobA.ID, CreateMaterialInput{Name: "x", Quantity: -1})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestMaterialUpdateRejectsNullScalars(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, f.user.ID)

	created, err := f.materials.Create(ctx, f.jobA.ID, CreateMaterialInput{Name: "Rebar", Quantity: 6, UnitCostCents: 310})
	require.NoError(t, err)

	_, err = f.materials.Update(ctx, f.jobA.ID, created.ID, UpdateMaterialInput{
		Quantity: optional.Null[float64](),
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.materials.Update(ctx, f.jobA.ID, created.ID, UpdateMaterialInput{
		UnitCostCents: optional.Null[int64](),
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	materials, err := f.materials.List(ctx, f.jobA.ID)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, float64(6), materials[0].Quantity)
	assert.Equal(t, int64(310), materials[0].UnitCostCents)
}
