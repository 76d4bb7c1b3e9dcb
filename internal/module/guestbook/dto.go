package guestbook

// CreatePostRequest is the guest request body for a new post.
type CreatePostRequest struct {
	GuestName  string `json:"guest_name" binding:"required,max=255"`
	GuestEmail string `json:"guest_email" binding:"omitempty,max=320"`
	Message    string `json:"message" binding:"max=5000"`
	ImageURL   string `json:"image_url" binding:"omitempty,url"`
	ImageKey   string `json:"image_key"`
}

func (r *CreatePostRequest) toInput() *CreatePostInput {
	return &CreatePostInput{
		GuestName:  r.GuestName,
		GuestEmail: r.GuestEmail,
		Message:    r.Message,
		ImageURL:   r.ImageURL,
		ImageKey:   r.ImageKey,
	}
}
