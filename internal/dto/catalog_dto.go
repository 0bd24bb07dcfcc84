package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Title              string          `json:"title" validate:"required,max=100"`
	Description        string          `json:"description" validate:"required,max=2000"`
	Price              float64         `json:"price" validate:"gte=0"`
	Rating             float64         `json:"rating" validate:"gte=0,lte=5"`
	DiscountPercentage float64         `json:"discount_percentage" validate:"gte=0,lte=100"`
	Stock              int             `json:"stock" validate:"gte=0"`
	Brand              string          `json:"brand" validate:"max=100"`
	Category           models.Category `json:"category" validate:"required,category"`
	Thumbnail          string          `json:"thumbnail" validate:"omitempty,url"`
	Images             []string        `json:"images" validate:"omitempty,dive,url"`
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
type UpdateProductRequest struct {
	Title              *string          `json:"title" validate:"omitempty,max=100"`
	Description        *string          `json:"description" validate:"omitempty,max=2000"`
	Price              *float64         `json:"price" validate:"omitempty,gte=0"`
	Rating             *float64         `json:"rating" validate:"omitempty,gte=0,lte=5"`
	DiscountPercentage *float64         `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	Stock              *int             `json:"stock" validate:"omitempty,gte=0"`
	Brand              *string          `json:"brand" validate:"omitempty,max=100"`
	Category           *models.Category `json:"category" validate:"omitempty,category"`
	Thumbnail          *string          `json:"thumbnail" validate:"omitempty,url"`
	Images             *[]string        `json:"images" validate:"omitempty,dive,url"`
}

type ProductEnvelope struct {
	Product *models.Product `json:"product"`
}

type ProductsEnvelope struct {
	Products []models.Product `json:"products"`
}

type CreateReviewRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Text    string `json:"text" validate:"required,max=500"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Product string `json:"product" validate:"required,uuid"`
}

type UpdateReviewRequest struct {
	Title  string `json:"title" validate:"required,max=100"`
	Text   string `json:"text" validate:"required,max=500"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

type Ref struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	Product   Ref       `json:"product"`
	User      Ref       `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReviewResponse flattens a review with its preloaded author and product.
func NewReviewResponse(r *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        r.ID,
		Title:     r.Title,
		Text:      r.Text,
		Rating:    r.Rating,
		Product:   Ref{ID: r.ProductID},
		User:      Ref{ID: r.UserID},
		CreatedAt: r.CreatedAt,
	}
	if r.Product != nil {
		resp.Product.Name = r.Product.Title
	}
	if r.User != nil {
		resp.User.Name = r.User.Name
	}
	return resp
}

type ReviewEnvelope struct {
	Review ReviewResponse `json:"review"`
}

type ReviewsEnvelope struct {
	Reviews []ReviewResponse `json:"reviews"`
}
