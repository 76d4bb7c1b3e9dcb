package gallery

import "errors"

// Gallery module errors.
var (
	ErrCarouselPhotoNotFound = errors.New("carousel photo not found")
	ErrPhotoNotFound         = errors.New("photo not found")
	ErrCommentNotFound       = errors.New("comment not found")
	ErrAlreadyLiked          = errors.New("already liked")

	ErrImageURLRequired  = errors.New("image url is required")
	ErrGuestNameRequired = errors.New("guest name is required")
	ErrCommentRequired   = errors.New("comment is required")
	ErrInvalidEmail      = errors.New("invalid email")
)
