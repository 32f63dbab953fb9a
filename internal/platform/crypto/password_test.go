package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Test123!@#", nil},
		{"Str0ng#Pass", nil},
		{"Demo!2345", nil},
		{"Test1!", ErrPasswordTooShort},
		{"Abc12", ErrPasswordTooShort},
		{"test123!@#", ErrPasswordNoUpper},
		{"TEST123!@#", ErrPasswordNoLower},
		{"TestPass!@#", ErrPasswordNoNumber},
		{"TestPass123", ErrPasswordNoSpecialChar},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePasswordStrength(tt.password))
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng#Pass")
	require.NoError(t, err)

	assert.NotEqual(t, "Str0ng#Pass", hash)
	assert.True(t, VerifyPassword(hash, "Str0ng#Pass"))
	assert.False(t, VerifyPassword(hash, "str0ng#pass"))
	assert.False(t, VerifyPassword("not-a-hash", "Str0ng#Pass"))
}
