package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutMetadata_Encode(t *testing.T) {
	t.Run("omits absent optional fields", func(t *testing.T) {
		m := CheckoutMetadata{GuestName: "Maria"}
		assert.Equal(t, map[string]string{
			"guest_name": "Maria",
			"quantity":   "1",
		}, m.Encode())
	})

	t.Run("includes every present field", func(t *testing.T) {
		pid := uint(7)
		m := CheckoutMetadata{
			GuestName:  "João",
			GuestEmail: "joao@example.com",
			ProductID:  &pid,
			Quantity:   3,
			UserID:     "u-1",
		}
		assert.Equal(t, map[string]string{
			"guest_name":  "João",
			"guest_email": "joao@example.com",
			"product_id":  "7",
			"quantity":    "3",
			"user_id":     "u-1",
		}, m.Encode())
	})
}

func TestDecodeMetadata(t *testing.T) {
	t.Run("round trips encoded metadata", func(t *testing.T) {
		pid := uint(12)
		in := CheckoutMetadata{GuestName: "Ana", GuestEmail: "ana@example.com", ProductID: &pid, Quantity: 2}
		out := DecodeMetadata(in.Encode())
		assert.Equal(t, in, out)
	})

	t.Run("applies fallbacks for empty metadata", func(t *testing.T) {
		m := DecodeMetadata(nil)
		assert.Equal(t, AnonymousGuest, m.GuestName)
		assert.Empty(t, m.GuestEmail)
		assert.Nil(t, m.ProductID)
		assert.Equal(t, 1, m.Quantity)
	})

	t.Run("treats placeholders as absent", func(t *testing.T) {
		m := DecodeMetadata(map[string]string{
			"guest_name":  "Carlos",
			"guest_email": "unknown",
			"product_id":  "none",
			"quantity":    "0",
			"user_id":     "guest",
		})
		assert.Equal(t, "Carlos", m.GuestName)
		assert.Empty(t, m.GuestEmail)
		assert.Nil(t, m.ProductID)
		assert.Equal(t, 1, m.Quantity)
		assert.Empty(t, m.UserID)
	})

	t.Run("accepts legacy customer keys", func(t *testing.T) {
		m := DecodeMetadata(map[string]string{
			"customer_name":  "Beatriz",
			"customer_email": "bia@example.com",
		})
		assert.Equal(t, "Beatriz", m.GuestName)
		assert.Equal(t, "bia@example.com", m.GuestEmail)
	})

	t.Run("ignores unparsable optional values", func(t *testing.T) {
		m := DecodeMetadata(map[string]string{"product_id": "abc", "quantity": "many"})
		assert.Nil(t, m.ProductID)
		assert.Equal(t, 1, m.Quantity)
	})

	t.Run("parses product id", func(t *testing.T) {
		m := DecodeMetadata(map[string]string{"product_id": "42"})
		require.NotNil(t, m.ProductID)
		assert.Equal(t, uint(42), *m.ProductID)
	})
}
