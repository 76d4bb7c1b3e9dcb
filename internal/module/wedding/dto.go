package wedding

import "time"

// UpdateInfoRequest is the admin request body. Omitted fields are left unchanged.
type UpdateInfoRequest struct {
	GroomName         *string    `json:"groom_name" binding:"omitempty,max=255"`
	BrideName         *string    `json:"bride_name" binding:"omitempty,max=255"`
	WeddingDate       *time.Time `json:"wedding_date" example:"2026-11-21T16:00:00-03:00"`
	Description       *string    `json:"description"`
	BankAccountName   *string    `json:"bank_account_name" binding:"omitempty,max=255"`
	BankAccountNumber *string    `json:"bank_account_number" binding:"omitempty,max=100"`
	BankCode          *string    `json:"bank_code" binding:"omitempty,max=50"`
	PixKey            *string    `json:"pix_key" binding:"omitempty,max=255"`
	StripeAccountID   *string    `json:"stripe_account_id" binding:"omitempty,max=255"`
}

func (r *UpdateInfoRequest) toInput() *UpdateInput {
	return &UpdateInput{
		GroomName:         r.GroomName,
		BrideName:         r.BrideName,
		WeddingDate:       r.WeddingDate,
		Description:       r.Description,
		BankAccountName:   r.BankAccountName,
		BankAccountNumber: r.BankAccountNumber,
		BankCode:          r.BankCode,
		PixKey:            r.PixKey,
		StripeAccountID:   r.StripeAccountID,
	}
}
