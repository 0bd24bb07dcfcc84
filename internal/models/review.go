package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one user's rating of one product. The (product_id, user_id)
// unique index is the authoritative one-review-per-user-per-product guard.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	Rating    int       `gorm:"not null;default:1" json:"rating"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"-"`
	Product   *Product  `json:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
