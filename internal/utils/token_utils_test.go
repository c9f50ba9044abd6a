package utils_test

import (
	"testing"
	"time"

	"github.com/kahawapay/kahawapay_backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := utils.GenerateJWT("u-1", "sender@example.com", "admin", "secret", time.Hour, "kahawapay-backend")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "sender@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "kahawapay-backend", claims.Issuer)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	token, err := utils.GenerateJWT("u-1", "sender@example.com", "user", "secret", time.Hour, "kahawapay-backend")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	token, err := utils.GenerateJWT("u-1", "sender@example.com", "user", "secret", -time.Minute, "kahawapay-backend")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "secret")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, utils.CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, utils.CheckPasswordHash("wrong", hash))
}

func TestCurrencyFormatting(t *testing.T) {
	assert.Equal(t, "KSh", utils.CurrencySymbol("KES"))
	assert.Equal(t, "XYZ", utils.CurrencySymbol("XYZ"))

	amount, _ := decimal.NewFromString("7643.996")
	assert.Equal(t, "7644", utils.FormatAmount(amount))
	amount, _ = decimal.NewFromString("58.804")
	assert.Equal(t, "58.8", utils.FormatAmount(amount))
	amount, _ = decimal.NewFromString("58.85")
	assert.Equal(t, "58.85", utils.FormatAmount(amount))
}
