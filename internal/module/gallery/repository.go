package gallery

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository defines the interface for gallery data access.
type Repository interface {
	// Carousel
	CreateCarouselPhoto(ctx context.Context, photo *CarouselPhoto) error
	GetCarouselPhoto(ctx context.Context, id uint) (*CarouselPhoto, error)
	ListCarouselPhotos(ctx context.Context, activeOnly bool) ([]*CarouselPhoto, error)
	UpdateCarouselPhoto(ctx context.Context, photo *CarouselPhoto) error
	DeleteCarouselPhoto(ctx context.Context, id uint) error

	// Event photos
	CreatePhoto(ctx context.Context, photo *Photo) error
	GetPhoto(ctx context.Context, id uint) (*Photo, error)
	ListPhotos(ctx context.Context) ([]*Photo, error)
	DeletePhoto(ctx context.Context, id uint) error

	// Comments
	CreateComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, photoID uint, approvedOnly bool) ([]*Comment, error)
	ApproveComment(ctx context.Context, id uint) (*Comment, error)
	DeleteComment(ctx context.Context, id uint) error

	// Likes. Both return the recounted total for the photo.
	AddLike(ctx context.Context, photoID uint, guestEmail string) (int, error)
	RemoveLike(ctx context.Context, photoID uint, guestEmail string) (int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new gallery repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// --- Carousel ---

func (r *repository) CreateCarouselPhoto(ctx context.Context, photo *CarouselPhoto) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return fmt.Errorf("create carousel photo: %w", err)
	}
	return nil
}

func (r *repository) GetCarouselPhoto(ctx context.Context, id uint) (*CarouselPhoto, error) {
	var photo CarouselPhoto
	if err := r.db.WithContext(ctx).First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarouselPhotoNotFound
		}
		return nil, fmt.Errorf("get carousel photo: %w", err)
	}
	return &photo, nil
}

func (r *repository) ListCarouselPhotos(ctx context.Context, activeOnly bool) ([]*CarouselPhoto, error) {
	var photos []*CarouselPhoto
	query := r.db.WithContext(ctx).Model(&CarouselPhoto{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("sort_order ASC, id ASC").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list carousel photos: %w", err)
	}
	return photos, nil
}

func (r *repository) UpdateCarouselPhoto(ctx context.Context, photo *CarouselPhoto) error {
	if err := r.db.WithContext(ctx).Save(photo).Error; err != nil {
		return fmt.Errorf("update carousel photo: %w", err)
	}
	return nil
}

func (r *repository) DeleteCarouselPhoto(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&CarouselPhoto{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete carousel photo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCarouselPhotoNotFound
	}
	return nil
}

// --- Event photos ---

func (r *repository) CreatePhoto(ctx context.Context, photo *Photo) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return fmt.Errorf("create photo: %w", err)
	}
	return nil
}

func (r *repository) GetPhoto(ctx context.Context, id uint) (*Photo, error) {
	var photo Photo
	if err := r.db.WithContext(ctx).First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return &photo, nil
}

func (r *repository) ListPhotos(ctx context.Context) ([]*Photo, error) {
	var photos []*Photo
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

// DeletePhoto removes the photo together with its comments and likes.
func (r *repository) DeletePhoto(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Photo{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete photo: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrPhotoNotFound
		}
		if err := tx.Where("photo_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return fmt.Errorf("delete photo comments: %w", err)
		}
		if err := tx.Where("photo_id = ?", id).Delete(&Like{}).Error; err != nil {
			return fmt.Errorf("delete photo likes: %w", err)
		}
		return nil
	})
}

// --- Comments ---

func (r *repository) CreateComment(ctx context.Context, comment *Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *repository) ListComments(ctx context.Context, photoID uint, approvedOnly bool) ([]*Comment, error) {
	var comments []*Comment
	query := r.db.WithContext(ctx).Where("photo_id = ?", photoID)
	if approvedOnly {
		query = query.Where("is_approved = ?", true)
	}
	if err := query.Order("created_at DESC, id DESC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (r *repository) ApproveComment(ctx context.Context, id uint) (*Comment, error) {
	var comment Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&comment).Update("is_approved", true).Error; err != nil {
		return nil, fmt.Errorf("approve comment: %w", err)
	}
	comment.IsApproved = true
	return &comment, nil
}

func (r *repository) DeleteComment(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Comment{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// --- Likes ---

func (r *repository) AddLike(ctx context.Context, photoID uint, guestEmail string) (int, error) {
	var likes int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&Like{}).
			Where("photo_id = ? AND guest_email = ?", photoID, guestEmail).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("check like: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyLiked
		}

		if err := tx.Create(&Like{PhotoID: photoID, GuestEmail: guestEmail}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyLiked
			}
			return fmt.Errorf("create like: %w", err)
		}

		n, err := recountLikes(tx, photoID)
		likes = n
		return err
	})
	if errors.Is(err, ErrAlreadyLiked) {
		photo, getErr := r.GetPhoto(ctx, photoID)
		if getErr != nil {
			return 0, getErr
		}
		return photo.Likes, ErrAlreadyLiked
	}
	return likes, err
}

func (r *repository) RemoveLike(ctx context.Context, photoID uint, guestEmail string) (int, error) {
	var likes int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("photo_id = ? AND guest_email = ?", photoID, guestEmail).Delete(&Like{}).Error
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}

		n, err := recountLikes(tx, photoID)
		likes = n
		return err
	})
	return likes, err
}

func recountLikes(tx *gorm.DB, photoID uint) (int, error) {
	var n int64
	if err := tx.Model(&Like{}).Where("photo_id = ?", photoID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	if err := tx.Model(&Photo{}).Where("id = ?", photoID).Update("likes", n).Error; err != nil {
		return 0, fmt.Errorf("update like count: %w", err)
	}
	return int(n), nil
}
