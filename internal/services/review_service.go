package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = apperr.New(apperr.KindNotFound, "No review found with the provided ID")
	ErrDuplicateReview = apperr.New(apperr.KindConflict, "A user can not create more than one review for a product")
	ErrNotReviewOwner  = apperr.New(apperr.KindForbidden, "The current user does not have permission to access this resource")
	ErrNotReviewAuthor = apperr.New(apperr.KindForbidden, "The current user can't access this resource")
)

type ReviewService struct {
	db      *gorm.DB
	ratings *RatingAggregator
}

func NewReviewService(db *gorm.DB, ratings *RatingAggregator) *ReviewService {
	return &ReviewService{db: db, ratings: ratings}
}

func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.withRefs(s.db.WithContext(ctx)).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// Create stores the actor's review of a product. The pre-check rejects the
// common duplicate early; the unique index rejects the concurrent one.
func (s *ReviewService) Create(ctx context.Context, actor *models.User, req *dto.CreateReviewRequest) (*models.Review, error) {
	productID, err := uuid.Parse(req.Product)
	if err != nil {
		return nil, apperr.Validation("Invalid product ID")
	}

	var products int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if products == 0 {
		return nil, ErrProductNotFound
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, actor.ID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateReview
	}

	review := models.Review{
		Title:     req.Title,
		Text:      req.Text,
		Rating:    req.Rating,
		ProductID: productID,
		UserID:    actor.ID,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.refreshRating(ctx, productID)
	return s.load(ctx, review.ID)
}

func (s *ReviewService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.findOwned(ctx, actor, id, ErrNotReviewOwner)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(review).Updates(map[string]interface{}{
		"title":  req.Title,
		"text":   req.Text,
		"rating": req.Rating,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	s.refreshRating(ctx, review.ProductID)
	return s.load(ctx, review.ID)
}

func (s *ReviewService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	review, err := s.findOwned(ctx, actor, id, ErrNotReviewAuthor)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", review.ID).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.refreshRating(ctx, review.ProductID)
	return nil
}

// findOwned loads the review and returns denied when actor is not its author.
func (s *ReviewService) findOwned(ctx context.Context, actor *models.User, id uuid.UUID, denied error) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	if review.UserID != actor.ID {
		return nil, denied
	}
	return &review, nil
}

func (s *ReviewService) load(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.withRefs(s.db.WithContext(ctx)).First(&review, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	return &review, nil
}

func (s *ReviewService) withRefs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") })
}

// refreshRating runs after the review write has committed. A failed
// aggregate write is logged; the next mutation of the product repairs it.
func (s *ReviewService) refreshRating(ctx context.Context, productID uuid.UUID) {
	if _, err := s.ratings.Recompute(ctx, productID); err != nil {
		slog.Error("average rating recompute failed", "product_id", productID.String(), "action", "recompute_rating", "error", err)
	}
}
