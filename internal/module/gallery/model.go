package gallery

import "time"

// CarouselPhoto is a home page slide.
type CarouselPhoto struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ImageURL  string    `json:"image_url" gorm:"type:text;not null"`
	ImageKey  string    `json:"image_key,omitempty" gorm:"size:512"`
	Caption   string    `json:"caption,omitempty" gorm:"size:500"`
	Order     int       `json:"order" gorm:"column:sort_order;not null;index"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CarouselPhoto) TableName() string {
	return "carousel_photos"
}

// Photo is an event gallery picture. Likes mirrors the row count in
// event_gallery_likes and is rewritten on every like change.
type Photo struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ImageURL  string    `json:"image_url" gorm:"type:text;not null"`
	ImageKey  string    `json:"image_key,omitempty" gorm:"size:512"`
	Caption   string    `json:"caption,omitempty" gorm:"size:500"`
	Likes     int       `json:"likes" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Photo) TableName() string {
	return "event_gallery_photos"
}

// Comment is a guest comment on a gallery photo.
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PhotoID    uint      `json:"photo_id" gorm:"not null;index"`
	GuestName  string    `json:"guest_name" gorm:"size:255;not null"`
	GuestEmail string    `json:"guest_email,omitempty" gorm:"size:320"`
	Comment    string    `json:"comment" gorm:"type:text;not null"`
	IsApproved bool      `json:"is_approved" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "event_gallery_comments"
}

// Like records one guest liking one photo.
type Like struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PhotoID    uint      `json:"photo_id" gorm:"not null;uniqueIndex:idx_gallery_like_photo_email"`
	GuestEmail string    `json:"guest_email" gorm:"size:320;not null;uniqueIndex:idx_gallery_like_photo_email"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "event_gallery_likes"
}

// Models returns the gallery models for migration.
func Models() []any {
	return []any{&CarouselPhoto{}, &Photo{}, &Comment{}, &Like{}}
}
