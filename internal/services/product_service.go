package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrProductNotFound = apperr.New(apperr.KindNotFound, "No product found with the entered ID")

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get returns the product with its reviews.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) Create(ctx context.Context, req *dto.CreateProductRequest) (*models.Product, error) {
	product := models.Product{
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		Rating:             req.Rating,
		DiscountPercentage: req.DiscountPercentage,
		Stock:              req.Stock,
		Brand:              req.Brand,
		Category:           req.Category,
		Thumbnail:          req.Thumbnail,
		Images:             datatypes.NewJSONSlice(req.Images),
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// Update applies the non-nil fields of req. AverageRating is never touched here.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*models.Product, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.DiscountPercentage != nil {
		updates["discount_percentage"] = *req.DiscountPercentage
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Thumbnail != nil {
		updates["thumbnail"] = *req.Thumbnail
	}
	if req.Images != nil {
		updates["images"] = datatypes.NewJSONSlice(*req.Images)
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
		if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
			return nil, fmt.Errorf("failed to reload product: %w", err)
		}
	}
	return &product, nil
}

// Delete removes the product and its reviews. No aggregate is recomputed
// since the product itself is gone.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to find product: %w", err)
		}
		if count == 0 {
			return ErrProductNotFound
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete product reviews: %w", err)
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}
