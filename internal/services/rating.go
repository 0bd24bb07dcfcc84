package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingAggregator keeps Product.AverageRating equal to the mean rating of
// the product's reviews. It always recomputes from the reviews table, so
// concurrent writers converge once mutations stop.
type RatingAggregator struct {
	db *gorm.DB
}

func NewRatingAggregator(db *gorm.DB) *RatingAggregator {
	return &RatingAggregator{db: db}
}

// Average is the mean review rating of productID, or 0 when it has none.
func (a *RatingAggregator) Average(ctx context.Context, productID uuid.UUID) (float64, error) {
	var avg float64
	err := a.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("product_id = ?", productID).
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to average ratings: %w", err)
	}
	return avg, nil
}

// Recompute stores the current average on the product and returns it.
func (a *RatingAggregator) Recompute(ctx context.Context, productID uuid.UUID) (float64, error) {
	avg, err := a.Average(ctx, productID)
	if err != nil {
		return 0, err
	}

	if err := a.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("average_rating", avg).Error; err != nil {
		return 0, fmt.Errorf("failed to store average rating: %w", err)
	}
	return avg, nil
}

// RecomputeAll recomputes every product in productIDs, continuing past failures.
func (a *RatingAggregator) RecomputeAll(ctx context.Context, productIDs []uuid.UUID) error {
	var errs []error
	for _, id := range productIDs {
		if _, err := a.Recompute(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("product %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
