package auth

import (
	"testing"
	"time"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		wantRole models.Role
	}{
		{"customer", &models.User{ID: uuid.New(), Login: "ravi", Role: models.RoleCustomer}, models.RoleCustomer},
		{"admin", &models.User{ID: uuid.New(), Login: "owner", Role: models.RoleAdmin}, models.RoleAdmin},
		{"role defaults to customer", &models.User{ID: uuid.New(), Login: "legacy"}, models.RoleCustomer},
		{"unicode login", &models.User{ID: uuid.New(), Login: "पोलो"}, models.RoleCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.user, testSecret, time.Hour)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.user.ID, claims.UserID)
			assert.Equal(t, tt.user.Login, claims.Login)
			assert.Equal(t, tt.wantRole, claims.Role)
			assert.Equal(t, tt.user.ID.String(), claims.Subject)
			assert.NotNil(t, claims.ExpiresAt)
			assert.NotNil(t, claims.IssuedAt)
		})
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	user := &models.User{ID: uuid.New(), Login: "ravi"}

	valid, err := GenerateToken(user, testSecret, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(user, testSecret, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "wrong-secret"},
		{"expired", expired, testSecret},
		{"garbage", "invalid.token.here", testSecret},
		{"empty", "", testSecret},
		{"header only", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9", testSecret},
		{"tampered signature", valid + "x", testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func BenchmarkValidateToken(b *testing.B) {
	token, _ := GenerateToken(&models.User{ID: uuid.New(), Login: "bench"}, testSecret, time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ValidateToken(token, testSecret)
	}
}
