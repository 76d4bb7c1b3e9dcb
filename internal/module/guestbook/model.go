package guestbook

import "time"

// Post is a guest message, optionally with a photo, shown after moderation.
type Post struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	GuestName  string    `json:"guest_name" gorm:"size:255;not null"`
	GuestEmail string    `json:"guest_email,omitempty" gorm:"size:320"`
	Message    string    `json:"message,omitempty" gorm:"type:text"`
	ImageURL   string    `json:"image_url,omitempty" gorm:"type:text"`
	ImageKey   string    `json:"image_key,omitempty" gorm:"size:512"`
	IsApproved bool      `json:"is_approved" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

// Models returns the guestbook models for migration.
func Models() []any {
	return []any{&Post{}}
}
