package gallery

// CreateCarouselRequest is the admin request body for a new slide.
type CreateCarouselRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
	ImageKey string `json:"image_key"`
	Caption  string `json:"caption" binding:"max=500"`
	Order    int    `json:"order"`
}

// UpdateCarouselRequest is the admin request body for a partial slide update.
type UpdateCarouselRequest struct {
	ImageURL *string `json:"image_url"`
	ImageKey *string `json:"image_key"`
	Caption  *string `json:"caption"`
	Order    *int    `json:"order"`
	IsActive *bool   `json:"is_active"`
}

// CreatePhotoRequest is the admin request body for a new event photo.
type CreatePhotoRequest struct {
	ImageURL string `json:"image_url" binding:"required,url"`
	ImageKey string `json:"image_key"`
	Caption  string `json:"caption" binding:"max=500"`
}

// CreateCommentRequest is the guest request body for a comment.
type CreateCommentRequest struct {
	GuestName  string `json:"guest_name" binding:"required,max=255"`
	GuestEmail string `json:"guest_email"`
	Comment    string `json:"comment" binding:"required,max=2000"`
}

// LikeRequest identifies the guest liking a photo.
type LikeRequest struct {
	GuestEmail string `json:"guest_email" form:"guest_email" binding:"required"`
}
