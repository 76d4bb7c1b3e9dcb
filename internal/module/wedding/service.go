package wedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// UpdateInput holds a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	GroomName         *string
	BrideName         *string
	WeddingDate       *time.Time
	Description       *string
	BankAccountName   *string
	BankAccountNumber *string
	BankCode          *string
	PixKey            *string
	StripeAccountID   *string
}

// Service manages the wedding info and its encrypted payout fields.
type Service struct {
	repo   Repository
	crypto *CryptoManager
	logger *zap.Logger
}

// NewService creates a new wedding service.
func NewService(repo Repository, crypto *CryptoManager, logger *zap.Logger) *Service {
	return &Service{repo: repo, crypto: crypto, logger: logger}
}

// GetInfo returns the decrypted wedding info, or an empty record when
// nothing has been configured yet.
func (s *Service) GetInfo(ctx context.Context) (*Info, error) {
	info, err := s.repo.Get(ctx)
	if errors.Is(err, ErrInfoNotFound) {
		return &Info{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.decrypted(info)
}

// UpdateInfo creates or updates the wedding info row.
func (s *Service) UpdateInfo(ctx context.Context, in *UpdateInput) (*Info, error) {
	info, err := s.repo.Get(ctx)
	if errors.Is(err, ErrInfoNotFound) {
		info = &Info{}
	} else if err != nil {
		return nil, err
	}

	apply(&info.GroomName, in.GroomName)
	apply(&info.BrideName, in.BrideName)
	apply(&info.Description, in.Description)
	apply(&info.BankAccountName, in.BankAccountName)
	apply(&info.BankCode, in.BankCode)
	apply(&info.StripeAccountID, in.StripeAccountID)
	if in.WeddingDate != nil {
		date := *in.WeddingDate
		info.WeddingDate = &date
	}

	if in.BankAccountNumber != nil {
		if info.BankAccountNumber, err = s.encrypt(*in.BankAccountNumber); err != nil {
			return nil, err
		}
	}
	if in.PixKey != nil {
		if info.PixKey, err = s.encrypt(*in.PixKey); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, info); err != nil {
		return nil, err
	}

	s.logger.Info("wedding info updated",
		zap.Uint("id", info.ID),
		zap.Bool("bank_account_changed", in.BankAccountNumber != nil),
		zap.Bool("pix_key_changed", in.PixKey != nil),
	)
	return s.decrypted(info)
}

func (s *Service) encrypt(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	encrypted, err := s.crypto.Encrypt(value)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}
	return encrypted, nil
}

// decrypted returns a copy with plaintext payout fields. Values stored
// before encryption was introduced are passed through unchanged.
func (s *Service) decrypted(info *Info) (*Info, error) {
	out := *info

	var err error
	if IsEncrypted(out.BankAccountNumber) {
		if out.BankAccountNumber, err = s.crypto.Decrypt(out.BankAccountNumber); err != nil {
			s.logger.Error("failed to decrypt bank account number", zap.Error(err))
			return nil, err
		}
	}
	if IsEncrypted(out.PixKey) {
		if out.PixKey, err = s.crypto.Decrypt(out.PixKey); err != nil {
			s.logger.Error("failed to decrypt pix key", zap.Error(err))
			return nil, err
		}
	}
	return &out, nil
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
