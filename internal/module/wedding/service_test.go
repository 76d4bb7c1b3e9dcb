package wedding

import (
	"context"
	"testing"
	"time"

	"github.com/giftregistry/server/internal/shared/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, Repository) {
	t.Helper()
	cm, err := NewCryptoManager("test-encryption-key")
	require.NoError(t, err)
	repo := NewRepository(dbtest.New(t, Models()...))
	return NewService(repo, cm, zap.NewNop()), repo
}

func strPtr(v string) *string { return &v }

func TestService_GetInfo_Default(t *testing.T) {
	svc, _ := newTestService(t)

	info, err := svc.GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Info{}, info)
}

func TestService_UpdateInfo_EncryptsPayoutFields(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	date := time.Date(2026, 11, 21, 19, 0, 0, 0, time.UTC)

	info, err := svc.UpdateInfo(ctx, &UpdateInput{
		GroomName:         strPtr("João"),
		BrideName:         strPtr("Maria"),
		WeddingDate:       &date,
		BankAccountNumber: strPtr("12345-6"),
		PixKey:            strPtr("maria@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "12345-6", info.BankAccountNumber)
	assert.Equal(t, "maria@example.com", info.PixKey)

	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, IsEncrypted(stored.BankAccountNumber))
	assert.True(t, IsEncrypted(stored.PixKey))
	assert.NotContains(t, stored.PixKey, "maria")

	read, err := svc.GetInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "João", read.GroomName)
	assert.Equal(t, "12345-6", read.BankAccountNumber)
	assert.Equal(t, "maria@example.com", read.PixKey)
	require.NotNil(t, read.WeddingDate)
	assert.True(t, date.Equal(*read.WeddingDate))
}

func TestService_UpdateInfo_Upserts(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	first, err := svc.UpdateInfo(ctx, &UpdateInput{GroomName: strPtr("João"), PixKey: strPtr("key-1")})
	require.NoError(t, err)

	second, err := svc.UpdateInfo(ctx, &UpdateInput{BrideName: strPtr("Maria")})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "João", second.GroomName)
	assert.Equal(t, "Maria", second.BrideName)
	assert.Equal(t, "key-1", second.PixKey, "untouched encrypted field survives")

	cleared, err := svc.UpdateInfo(ctx, &UpdateInput{PixKey: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, cleared.PixKey)

	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored.PixKey)
}

func TestService_GetInfo_LegacyPlaintext(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	require.NoError(t, repo.Save(ctx, &Info{BankAccountNumber: "98765-4", PixKey: "+5511999999999"}))

	info, err := svc.GetInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "98765-4", info.BankAccountNumber)
	assert.Equal(t, "+5511999999999", info.PixKey)
}

func TestService_GetInfo_WrongKey(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	_, err := svc.UpdateInfo(ctx, &UpdateInput{PixKey: strPtr("secret")})
	require.NoError(t, err)

	otherKey, err := NewCryptoManager("rotated-key")
	require.NoError(t, err)
	other := NewService(repo, otherKey, zap.NewNop())

	_, err = other.GetInfo(ctx)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}
