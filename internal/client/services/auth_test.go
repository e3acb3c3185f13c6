package services

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAuth(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		auth    models.Auth
		want    map[string]string
	}{
		{"no auth", map[string]string{"A": "1"}, models.NoAuth{}, map[string]string{"A": "1"}},
		{"nil auth", nil, nil, map[string]string{}},
		{
			"basic",
			nil,
			models.BasicAuth{Username: "user", Password: "pass"},
			map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
		},
		{"empty basic", nil, models.BasicAuth{}, map[string]string{}},
		{
			"bearer",
			map[string]string{"Accept": "*/*"},
			models.BearerAuth{Token: "abc"},
			map[string]string{"Accept": "*/*", "Authorization": "Bearer abc"},
		},
		{"empty bearer", nil, models.BearerAuth{}, map[string]string{}},
		{
			"token custom header",
			nil,
			models.TokenAuth{Header: "X-API-Key", Token: "k"},
			map[string]string{"X-API-Key": "k"},
		},
		{
			"token default header",
			nil,
			models.TokenAuth{Token: "k"},
			map[string]string{"Authorization": "k"},
		},
		{
			"user header wins",
			map[string]string{"authorization": "mine"},
			models.BearerAuth{Token: "abc"},
			map[string]string{"authorization": "mine"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyAuth(tt.headers, tt.auth))
		})
	}
}

func TestApplyAuth_DoesNotMutateInput(t *testing.T) {
	in := map[string]string{"A": "1"}
	_ = ApplyAuth(in, models.BearerAuth{Token: "t"})
	assert.Equal(t, map[string]string{"A": "1"}, in)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "x",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, ok = TokenExpiry(noExp)
	assert.False(t, ok)

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}
