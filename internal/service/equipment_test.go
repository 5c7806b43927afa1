package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository/memory"
	"equiprent-backend/internal/service"
)

func TestAddEquipment(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := service.NewEquipmentService(store.Equipment())

	t.Run("Success", func(t *testing.T) {
		eq := &domain.Equipment{Name: "Chainsaw", Price: 45, Stock: 2, Category: domain.CategoryGarden}
		require.NoError(t, svc.AddEquipment(ctx, ownerID, eq))
		assert.NotEmpty(t, eq.ID)
		assert.Equal(t, ownerID, eq.OwnerID)

		got, err := store.Equipment().GetByID(ctx, eq.ID)
		require.NoError(t, err)
		assert.Equal(t, "Chainsaw", got.Name)
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		eq := &domain.Equipment{Name: "Ladder", Price: 10, Stock: 1}
		require.NoError(t, svc.AddEquipment(ctx, ownerID, eq))
		assert.Equal(t, domain.CategoryOther, eq.Category)
		assert.Equal(t, "/images/placeholder.png", eq.Image)
		assert.Equal(t, "No description", eq.Detail)
	})

	t.Run("MissingName", func(t *testing.T) {
		err := svc.AddEquipment(ctx, ownerID, &domain.Equipment{Price: 10, Stock: 1})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("NegativePrice", func(t *testing.T) {
		err := svc.AddEquipment(ctx, ownerID, &domain.Equipment{Name: "X", Price: -1, Stock: 1})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("NegativeStock", func(t *testing.T) {
		err := svc.AddEquipment(ctx, ownerID, &domain.Equipment{Name: "X", Price: 1, Stock: -1})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestUpdateEquipment(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := service.NewEquipmentService(store.Equipment())

	eq := &domain.Equipment{Name: "Mixer", Price: 30, Stock: 4, Category: domain.CategoryConstruction}
	require.NoError(t, svc.AddEquipment(ctx, ownerID, eq))

	t.Run("OwnerCanUpdate", func(t *testing.T) {
		updated, err := svc.UpdateEquipment(ctx, ownerID, &domain.Equipment{
			ID: eq.ID, Name: "Concrete Mixer", Price: 35, Stock: 3, Category: domain.CategoryConstruction,
		})
		require.NoError(t, err)
		assert.Equal(t, "Concrete Mixer", updated.Name)
		assert.Equal(t, float64(35), updated.Price)
		assert.Equal(t, int64(3), updated.Stock)
		// Ownership never moves on update.
		assert.Equal(t, ownerID, updated.OwnerID)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		_, err := svc.UpdateEquipment(ctx, renterID, &domain.Equipment{
			ID: eq.ID, Name: "Stolen", Price: 1, Stock: 1,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("UnknownEquipment", func(t *testing.T) {
		_, err := svc.UpdateEquipment(ctx, ownerID, &domain.Equipment{ID: "missing", Name: "X"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDeleteEquipment(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := service.NewEquipmentService(store.Equipment())

	eq := &domain.Equipment{Name: "Pressure Washer", Price: 25, Stock: 1}
	require.NoError(t, svc.AddEquipment(ctx, ownerID, eq))

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteEquipment(ctx, renterID, eq.ID), domain.ErrForbidden)
	})

	t.Run("OwnerCanDelete", func(t *testing.T) {
		require.NoError(t, svc.DeleteEquipment(ctx, ownerID, eq.ID))
		_, err := store.Equipment().GetByID(ctx, eq.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UnknownEquipment", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteEquipment(ctx, ownerID, "missing"), domain.ErrNotFound)
	})
}
