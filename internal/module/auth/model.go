package auth

import "time"

// AdminCredential is a couple/admin login.
type AdminCredential struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"size:320;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	// Owner is set on the admin created by setup. The unique index allows
	// one owner row, so concurrent first-boot setups cannot both commit.
	Owner        *bool      `json:"-" gorm:"uniqueIndex"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName returns the table name.
func (AdminCredential) TableName() string {
	return "admin_credentials"
}

// Models returns the models to migrate.
func Models() []any {
	return []any{&AdminCredential{}}
}
