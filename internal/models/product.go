package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category string

var Categories = []Category{
	"smartphones",
	"desktops",
	"computer accessories",
	"laptops",
	"laptop parts",
	"cctv",
	"printers and scanners",
	"networking and wifi",
	"gaming",
	"storage and memory",
	"gift items",
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product is a catalog entry. AverageRating is derived from the product's
// reviews and is only written by the rating aggregator.
type Product struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Title              string                      `gorm:"size:100;not null" json:"title"`
	Description        string                      `gorm:"size:2000;not null" json:"description"`
	Price              float64                     `gorm:"not null;default:0" json:"price"`
	Rating             float64                     `json:"rating"`
	AverageRating      *float64                    `json:"average_rating"`
	DiscountPercentage float64                     `json:"discount_percentage"`
	Stock              int                         `json:"stock"`
	Brand              string                      `gorm:"size:100" json:"brand"`
	Category           Category                    `gorm:"size:50;not null;index" json:"category"`
	Thumbnail          string                      `gorm:"type:text" json:"thumbnail"`
	Images             datatypes.JSONSlice[string] `json:"images"`
	CreatedAt          time.Time                   `json:"created_at"`
	Reviews            []Review                    `gorm:"constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
