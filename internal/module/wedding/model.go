package wedding

import "time"

// Info is the single row of couple and payout details.
// BankAccountNumber and PixKey hold ciphertext while stored.
type Info struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	GroomName         string     `json:"groom_name" gorm:"size:255"`
	BrideName         string     `json:"bride_name" gorm:"size:255"`
	WeddingDate       *time.Time `json:"wedding_date"`
	Description       string     `json:"description" gorm:"type:text"`
	BankAccountName   string     `json:"bank_account_name" gorm:"size:255"`
	BankAccountNumber string     `json:"bank_account_number" gorm:"type:text"`
	BankCode          string     `json:"bank_code" gorm:"size:50"`
	PixKey            string     `json:"pix_key" gorm:"type:text"`
	StripeAccountID   string     `json:"stripe_account_id" gorm:"size:255"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Info) TableName() string {
	return "wedding_info"
}

// Models returns the wedding models for migration.
func Models() []any {
	return []any{&Info{}}
}
