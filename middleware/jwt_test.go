package middleware

import (
	"testing"

	"lms/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWTCarriesMinimalClaims(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	signed, err := GenerateJWT(42, "STUDENT")
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["userId"])
	assert.Equal(t, "STUDENT", claims["role"])

	// Personal details stay out of the token
	assert.NotContains(t, claims, "email")
	assert.NotContains(t, claims, "mobile")
	assert.NotContains(t, claims, "name")
}
