package domain

import "time"

type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency" gorm:"size:3;not null;default:USD"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    string    `json:"category,omitempty" gorm:"size:100;index"`
	Merchant    string    `json:"merchant,omitempty" gorm:"size:100"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Links []AffiliateLink `json:"links,omitempty" gorm:"foreignKey:ProductID"`
}

// AffiliateLink is a merchant URL for a product through one affiliate
// network. CommissionRate is a fraction of the order value (0.05 = 5%).
type AffiliateLink struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ProductID      string    `json:"productId" gorm:"size:36;index;not null"`
	Network        string    `json:"network" gorm:"size:60"`
	URL            string    `json:"url" gorm:"not null"`
	CommissionRate float64   `json:"commissionRate"`
	Active         bool      `json:"active" gorm:"not null"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
