package gift

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/giftregistry/server/internal/shared/money"
	"go.uber.org/zap"
)

// CreateInput holds the fields for a new product.
type CreateInput struct {
	Name        string
	Description string
	Price       string
	ImageURL    string
	ImageKey    string
	Category    string
	Quantity    *int
}

// UpdateInput holds a partial product update. Nil fields are left unchanged.
type UpdateInput struct {
	Name         *string
	Description  *string
	Price        *string
	ImageURL     *string
	ImageKey     *string
	Category     *string
	Quantity     *int
	QuantitySold *int
	IsActive     *bool
}

// Service implements the gift catalog.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new gift service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListProducts returns active products oldest first, or every product for admins.
func (s *Service) ListProducts(ctx context.Context, includeInactive bool) ([]*Product, error) {
	return s.repo.List(ctx, !includeInactive)
}

// GetProduct returns a product by id. Inactive products are hidden unless includeInactive is set.
func (s *Service) GetProduct(ctx context.Context, id uint, includeInactive bool) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive && !includeInactive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetProductsByIDs returns the products with the given ids, in no particular order.
func (s *Service) GetProductsByIDs(ctx context.Context, ids []uint) ([]*Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// CreateProduct validates and stores a new active product.
func (s *Service) CreateProduct(ctx context.Context, in *CreateInput) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	cents, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	product := &Product{
		Name:        name,
		Description: in.Description,
		PriceCents:  cents,
		ImageURL:    in.ImageURL,
		ImageKey:    in.ImageKey,
		Category:    strings.TrimSpace(in.Category),
		Quantity:    quantity,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int64("price_cents", product.PriceCents),
	)
	return product, nil
}

// UpdateProduct applies a partial update.
func (s *Service) UpdateProduct(ctx context.Context, id uint, in *UpdateInput) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		product.Name = name
	}
	if in.Price != nil {
		cents, err := parsePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		product.PriceCents = cents
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		product.Quantity = *in.Quantity
	}
	if in.QuantitySold != nil {
		if *in.QuantitySold < 0 {
			return nil, ErrInvalidQuantity
		}
		product.QuantitySold = *in.QuantitySold
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.ImageKey != nil {
		product.ImageKey = *in.ImageKey
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("product updated", zap.Uint("product_id", product.ID))
	return product, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.Uint("product_id", id))
	return nil
}

func parsePrice(raw string) (int64, error) {
	cents, err := money.Parse(raw)
	if err != nil {
		if errors.Is(err, money.ErrInvalidAmount) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
		}
		return 0, err
	}
	return cents, nil
}
