package guestbook

import "errors"

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrGuestNameRequired = errors.New("guest name is required")
	ErrEmptyPost         = errors.New("post needs a message or an image")
	ErrInvalidEmail      = errors.New("invalid email")
)
