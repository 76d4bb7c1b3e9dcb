package gift

import (
	"time"

	"github.com/giftregistry/server/internal/shared/money"
)

// Product is a gift item guests can contribute towards.
type Product struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	PriceCents   int64     `json:"-" gorm:"not null"`
	ImageURL     string    `json:"image_url,omitempty" gorm:"type:text"`
	ImageKey     string    `json:"image_key,omitempty" gorm:"size:512"`
	Category     string    `json:"category,omitempty" gorm:"size:100;index"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	QuantitySold int       `json:"quantity_sold" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name.
func (Product) TableName() string {
	return "products"
}

// Price renders the unit price, e.g. "150.00".
func (p *Product) Price() string {
	return money.Format(p.PriceCents)
}

// Remaining is how many units are still open for contribution.
func (p *Product) Remaining() int {
	if n := p.Quantity - p.QuantitySold; n > 0 {
		return n
	}
	return 0
}

// Models returns the gift models for migration.
func Models() []any {
	return []any{&Product{}}
}
