package gift

import (
	"encoding/json"
	"time"
)

// CreateProductRequest is the admin request body for a new product.
type CreateProductRequest struct {
	Name        string      `json:"name" binding:"required,max=255"`
	Description string      `json:"description"`
	Price       json.Number `json:"price" binding:"required" swaggertype:"string" example:"150.00"`
	ImageURL    string      `json:"image_url"`
	ImageKey    string      `json:"image_key"`
	Category    string      `json:"category" binding:"max=100"`
	Quantity    *int        `json:"quantity"`
}

// ToInput converts the request to a service input.
func (r *CreateProductRequest) ToInput() *CreateInput {
	return &CreateInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price.String(),
		ImageURL:    r.ImageURL,
		ImageKey:    r.ImageKey,
		Category:    r.Category,
		Quantity:    r.Quantity,
	}
}

// UpdateProductRequest is the admin request body for a partial update.
type UpdateProductRequest struct {
	Name         *string      `json:"name"`
	Description  *string      `json:"description"`
	Price        *json.Number `json:"price" swaggertype:"string"`
	ImageURL     *string      `json:"image_url"`
	ImageKey     *string      `json:"image_key"`
	Category     *string      `json:"category"`
	Quantity     *int         `json:"quantity"`
	QuantitySold *int         `json:"quantity_sold"`
	IsActive     *bool        `json:"is_active"`
}

// ToInput converts the request to a service input.
func (r *UpdateProductRequest) ToInput() *UpdateInput {
	in := &UpdateInput{
		Name:         r.Name,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		ImageKey:     r.ImageKey,
		Category:     r.Category,
		Quantity:     r.Quantity,
		QuantitySold: r.QuantitySold,
		IsActive:     r.IsActive,
	}
	if r.Price != nil {
		price := r.Price.String()
		in.Price = &price
	}
	return in
}

// ProductResponse is the public representation of a product.
type ProductResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        string    `json:"price" example:"150.00"`
	ImageURL     string    `json:"image_url,omitempty"`
	ImageKey     string    `json:"image_key,omitempty"`
	Category     string    `json:"category,omitempty"`
	Quantity     int       `json:"quantity"`
	QuantitySold int       `json:"quantity_sold"`
	Remaining    int       `json:"remaining"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse converts a product to its response form.
func (p *Product) ToResponse() *ProductResponse {
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price(),
		ImageURL:     p.ImageURL,
		ImageKey:     p.ImageKey,
		Category:     p.Category,
		Quantity:     p.Quantity,
		QuantitySold: p.QuantitySold,
		Remaining:    p.Remaining(),
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toResponses(products []*Product) []*ProductResponse {
	out := make([]*ProductResponse, len(products))
	for i, p := range products {
		out[i] = p.ToResponse()
	}
	return out
}
