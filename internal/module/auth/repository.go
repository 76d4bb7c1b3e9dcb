package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository defines the interface for admin credential access.
type Repository interface {
	CreateOwner(ctx context.Context, admin *AdminCredential) error
	GetByEmail(ctx context.Context, email string) (*AdminCredential, error)
	GetByID(ctx context.Context, id uint) (*AdminCredential, error)
	Count(ctx context.Context) (int64, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new admin repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateOwner inserts the first admin. It fails with ErrAdminExists when
// any admin is already present, including one committed concurrently.
func (r *repository) CreateOwner(ctx context.Context, admin *AdminCredential) error {
	owner := true
	admin.Owner = &owner

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&AdminCredential{}).Count(&n).Error; err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if n > 0 {
			return ErrAdminExists
		}
		if err := tx.Create(admin).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAdminExists
			}
			return fmt.Errorf("create admin: %w", err)
		}
		return nil
	})
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*AdminCredential, error) {
	var admin AdminCredential
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return &admin, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*AdminCredential, error) {
	var admin AdminCredential
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &admin, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&AdminCredential{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&AdminCredential{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
