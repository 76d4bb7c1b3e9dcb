package payment

import (
	"strconv"
	"strings"
)

// Metadata keys carried on the provider's checkout session.
const (
	MetadataGuestName  = "guest_name"
	MetadataGuestEmail = "guest_email"
	MetadataProductID  = "product_id"
	MetadataQuantity   = "quantity"
	MetadataUserID     = "user_id"

	// Older sessions used customer_* keys.
	legacyMetadataGuestName  = "customer_name"
	legacyMetadataGuestEmail = "customer_email"
)

// AnonymousGuest is used when a session carries no guest name.
const AnonymousGuest = "Anonymous"

// CheckoutMetadata is the context a checkout session carries to the
// webhook so a ledger row can be built without a prior local write.
//
// GuestName is required on encode. Everything else is optional:
// GuestEmail falls back to "", ProductID to nil, Quantity to 1 and
// UserID to "".
type CheckoutMetadata struct {
	GuestName  string
	GuestEmail string
	ProductID  *uint
	Quantity   int
	UserID     string
}

// Encode returns the provider metadata map. Absent optional fields are omitted.
func (m CheckoutMetadata) Encode() map[string]string {
	out := map[string]string{
		MetadataGuestName: m.GuestName,
		MetadataQuantity:  strconv.Itoa(normalizeQuantity(m.Quantity)),
	}
	if m.GuestEmail != "" {
		out[MetadataGuestEmail] = m.GuestEmail
	}
	if m.ProductID != nil {
		out[MetadataProductID] = strconv.FormatUint(uint64(*m.ProductID), 10)
	}
	if m.UserID != "" {
		out[MetadataUserID] = m.UserID
	}
	return out
}

// DecodeMetadata reads metadata from a provider session, applying fallbacks.
// It never fails: unparsable optional values are treated as absent.
func DecodeMetadata(raw map[string]string) CheckoutMetadata {
	m := CheckoutMetadata{
		GuestName:  firstPresent(raw, MetadataGuestName, legacyMetadataGuestName),
		GuestEmail: firstPresent(raw, MetadataGuestEmail, legacyMetadataGuestEmail),
		UserID:     firstPresent(raw, MetadataUserID),
		Quantity:   1,
	}
	if m.GuestName == "" {
		m.GuestName = AnonymousGuest
	}
	if m.UserID == "guest" {
		m.UserID = ""
	}

	if v := firstPresent(raw, MetadataProductID); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil && id > 0 {
			pid := uint(id)
			m.ProductID = &pid
		}
	}
	if v := firstPresent(raw, MetadataQuantity); v != "" {
		if q, err := strconv.Atoi(v); err == nil {
			m.Quantity = normalizeQuantity(q)
		}
	}
	return m
}

func firstPresent(raw map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(raw[k]); !isAbsent(v) {
			return v
		}
	}
	return ""
}

// isAbsent matches the placeholders older sessions wrote for missing values.
func isAbsent(v string) bool {
	switch strings.ToLower(v) {
	case "", "none", "unknown", "null", "undefined":
		return true
	}
	return false
}

func normalizeQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
