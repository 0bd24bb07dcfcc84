package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.products.Create(ctx, &dto.CreateProductRequest{
		Title:       "Gaming Laptop",
		Description: "Fast",
		Price:       1499.99,
		Stock:       3,
		Category:    "laptops",
		Images:      []string{"https://cdn.example.com/1.png"},
	})
	require.NoError(t, err)
	assert.Nil(t, p.AverageRating)

	price := 1299.0
	updated, err := f.products.Update(ctx, p.ID, &dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 1299.0, updated.Price)
	assert.Equal(t, "Gaming Laptop", updated.Title)
	assert.Equal(t, []string{"https://cdn.example.com/1.png"}, []string(updated.Images))

	list, err := f.products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.products.Update(ctx, uuid.New(), &dto.UpdateProductRequest{Price: &price})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteRemovesReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice@example.com", models.RoleUser)
	p := f.createProduct(t, "Router")
	review(t, f, alice, p, 5)

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Reviews, 1)

	require.NoError(t, f.products.Delete(ctx, p.ID))

	_, err = f.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Review{}).Where("product_id = ?", p.ID).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, f.products.Delete(ctx, p.ID), ErrProductNotFound)
}
