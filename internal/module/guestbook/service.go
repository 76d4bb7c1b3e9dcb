package guestbook

import (
	"context"
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// CreatePostInput holds a guest submission.
type CreatePostInput struct {
	GuestName  string
	GuestEmail string
	Message    string
	ImageURL   string
	ImageKey   string
}

// Service implements the moderated guestbook.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new guestbook service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreatePost stores a guest post awaiting moderation.
func (s *Service) CreatePost(ctx context.Context, in *CreatePostInput) (*Post, error) {
	name := strings.TrimSpace(in.GuestName)
	if name == "" {
		return nil, ErrGuestNameRequired
	}
	email, err := normalizeEmail(in.GuestEmail)
	if err != nil {
		return nil, err
	}
	message := strings.TrimSpace(in.Message)
	imageURL := strings.TrimSpace(in.ImageURL)
	if message == "" && imageURL == "" {
		return nil, ErrEmptyPost
	}

	post := &Post{
		GuestName:  name,
		GuestEmail: email,
		Message:    message,
		ImageURL:   imageURL,
		ImageKey:   in.ImageKey,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("guestbook post submitted",
		zap.Uint("post_id", post.ID),
		zap.String("guest_name", post.GuestName),
		zap.Bool("has_image", post.ImageURL != ""),
	)
	return post, nil
}

// ListApproved returns the posts visible to guests, newest first.
func (s *Service) ListApproved(ctx context.Context) ([]*Post, error) {
	return s.repo.List(ctx, true)
}

// ListAll returns every post for moderation, newest first.
func (s *Service) ListAll(ctx context.Context) ([]*Post, error) {
	return s.repo.List(ctx, false)
}

// ApprovePost publishes a post.
func (s *Service) ApprovePost(ctx context.Context, id uint) (*Post, error) {
	if err := s.repo.SetApproved(ctx, id, true); err != nil {
		return nil, err
	}
	s.logger.Info("guestbook post approved", zap.Uint("post_id", id))
	return s.repo.GetByID(ctx, id)
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("guestbook post deleted", zap.Uint("post_id", id))
	return nil
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}
