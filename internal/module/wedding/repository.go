package wedding

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository stores the wedding info row.
type Repository interface {
	Get(ctx context.Context) (*Info, error)
	Save(ctx context.Context, info *Info) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new wedding info repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*Info, error) {
	var info Info
	if err := r.db.WithContext(ctx).Order("id ASC").First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInfoNotFound
		}
		return nil, fmt.Errorf("get wedding info: %w", err)
	}
	return &info, nil
}

func (r *repository) Save(ctx context.Context, info *Info) error {
	if err := r.db.WithContext(ctx).Save(info).Error; err != nil {
		return fmt.Errorf("save wedding info: %w", err)
	}
	return nil
}
