package catalog

import "giftfinder/internal/pkg/pagination"

type ListProductsQuery struct {
	pagination.Query
	Category string `form:"category" json:"category" validate:"omitempty,max=100"`
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Currency    string   `json:"currency" validate:"omitempty,len=3,alpha"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	Category    string   `json:"category" validate:"omitempty,max=100"`
	Merchant    string   `json:"merchant" validate:"omitempty,max=100"`
}

type CreateLinkRequest struct {
	Network        string   `json:"network" validate:"required,max=60"`
	URL            string   `json:"url" validate:"required,url"`
	CommissionRate *float64 `json:"commissionRate" validate:"required,gte=0,lte=1"`
	Active         *bool    `json:"active"`
}

// UpdateLinkRequest is a partial update; nil fields are left unchanged.
type UpdateLinkRequest struct {
	URL            *string  `json:"url" validate:"omitempty,url"`
	CommissionRate *float64 `json:"commissionRate" validate:"omitempty,gte=0,lte=1"`
	Active         *bool    `json:"active"`
}
