package gallery

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// CarouselInput holds the fields for a new carousel slide.
type CarouselInput struct {
	ImageURL string
	ImageKey string
	Caption  string
	Order    int
}

// CarouselUpdate holds a partial carousel update. Nil fields are left unchanged.
type CarouselUpdate struct {
	ImageURL *string
	ImageKey *string
	Caption  *string
	Order    *int
	IsActive *bool
}

// PhotoInput holds the fields for a new event photo.
type PhotoInput struct {
	ImageURL string
	ImageKey string
	Caption  string
}

// CommentInput holds a guest comment.
type CommentInput struct {
	GuestName  string
	GuestEmail string
	Comment    string
}

// LikeResult reports the outcome of a like change.
type LikeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Likes   int    `json:"likes"`
}

// Service implements the carousel and event gallery.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new gallery service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListCarousel returns slides ordered by their position.
func (s *Service) ListCarousel(ctx context.Context, includeInactive bool) ([]*CarouselPhoto, error) {
	return s.repo.ListCarouselPhotos(ctx, !includeInactive)
}

func (s *Service) CreateCarouselPhoto(ctx context.Context, in *CarouselInput) (*CarouselPhoto, error) {
	url := strings.TrimSpace(in.ImageURL)
	if url == "" {
		return nil, ErrImageURLRequired
	}

	photo := &CarouselPhoto{
		ImageURL: url,
		ImageKey: in.ImageKey,
		Caption:  strings.TrimSpace(in.Caption),
		Order:    in.Order,
		IsActive: true,
	}
	if err := s.repo.CreateCarouselPhoto(ctx, photo); err != nil {
		return nil, err
	}
	s.logger.Info("carousel photo created", zap.Uint("carousel_photo_id", photo.ID), zap.Int("order", photo.Order))
	return photo, nil
}

func (s *Service) UpdateCarouselPhoto(ctx context.Context, id uint, in *CarouselUpdate) (*CarouselPhoto, error) {
	photo, err := s.repo.GetCarouselPhoto(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ImageURL != nil {
		url := strings.TrimSpace(*in.ImageURL)
		if url == "" {
			return nil, ErrImageURLRequired
		}
		photo.ImageURL = url
	}
	if in.ImageKey != nil {
		photo.ImageKey = *in.ImageKey
	}
	if in.Caption != nil {
		photo.Caption = strings.TrimSpace(*in.Caption)
	}
	if in.Order != nil {
		photo.Order = *in.Order
	}
	if in.IsActive != nil {
		photo.IsActive = *in.IsActive
	}

	if err := s.repo.UpdateCarouselPhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *Service) DeleteCarouselPhoto(ctx context.Context, id uint) error {
	return s.repo.DeleteCarouselPhoto(ctx, id)
}

// ListPhotos returns active event photos, newest first.
func (s *Service) ListPhotos(ctx context.Context) ([]*Photo, error) {
	return s.repo.ListPhotos(ctx)
}

func (s *Service) CreatePhoto(ctx context.Context, in *PhotoInput) (*Photo, error) {
	url := strings.TrimSpace(in.ImageURL)
	if url == "" {
		return nil, ErrImageURLRequired
	}

	photo := &Photo{
		ImageURL: url,
		ImageKey: in.ImageKey,
		Caption:  strings.TrimSpace(in.Caption),
		IsActive: true,
	}
	if err := s.repo.CreatePhoto(ctx, photo); err != nil {
		return nil, err
	}
	s.logger.Info("gallery photo created", zap.Uint("photo_id", photo.ID))
	return photo, nil
}

func (s *Service) DeletePhoto(ctx context.Context, id uint) error {
	if err := s.repo.DeletePhoto(ctx, id); err != nil {
		return err
	}
	s.logger.Info("gallery photo deleted", zap.Uint("photo_id", id))
	return nil
}

// ListComments returns a photo's comments newest first.
// Guests only see approved comments.
func (s *Service) ListComments(ctx context.Context, photoID uint, includeUnapproved bool) ([]*Comment, error) {
	return s.repo.ListComments(ctx, photoID, !includeUnapproved)
}

// AddComment stores a guest comment awaiting moderation.
func (s *Service) AddComment(ctx context.Context, photoID uint, in *CommentInput) (*Comment, error) {
	name := strings.TrimSpace(in.GuestName)
	if name == "" {
		return nil, ErrGuestNameRequired
	}
	text := strings.TrimSpace(in.Comment)
	if text == "" {
		return nil, ErrCommentRequired
	}
	email := strings.TrimSpace(in.GuestEmail)
	if email != "" {
		var err error
		if email, err = normalizeEmail(email); err != nil {
			return nil, err
		}
	}

	if _, err := s.repo.GetPhoto(ctx, photoID); err != nil {
		return nil, err
	}

	comment := &Comment{
		PhotoID:    photoID,
		GuestName:  name,
		GuestEmail: email,
		Comment:    text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info("gallery comment submitted", zap.Uint("photo_id", photoID), zap.Uint("comment_id", comment.ID))
	return comment, nil
}

func (s *Service) ApproveComment(ctx context.Context, id uint) (*Comment, error) {
	return s.repo.ApproveComment(ctx, id)
}

func (s *Service) DeleteComment(ctx context.Context, id uint) error {
	return s.repo.DeleteComment(ctx, id)
}

// AddLike likes a photo once per guest email. A repeat like is reported
// in the result rather than as an error.
func (s *Service) AddLike(ctx context.Context, photoID uint, guestEmail string) (*LikeResult, error) {
	email, err := normalizeEmail(guestEmail)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPhoto(ctx, photoID); err != nil {
		return nil, err
	}

	likes, err := s.repo.AddLike(ctx, photoID, email)
	if errors.Is(err, ErrAlreadyLiked) {
		return &LikeResult{Success: false, Message: "already liked", Likes: likes}, nil
	}
	if err != nil {
		return nil, err
	}
	return &LikeResult{Success: true, Likes: likes}, nil
}

// RemoveLike withdraws a guest's like. Removing a missing like succeeds.
func (s *Service) RemoveLike(ctx context.Context, photoID uint, guestEmail string) (*LikeResult, error) {
	email, err := normalizeEmail(guestEmail)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPhoto(ctx, photoID); err != nil {
		return nil, err
	}

	likes, err := s.repo.RemoveLike(ctx, photoID, email)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Success: true, Likes: likes}, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}
