package services

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/dmitrijs2005/fluxapi/internal/client/models"
	"github.com/dmitrijs2005/fluxapi/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ApplyAuth returns a copy of headers with the auth header filled in. A
// header the user set explicitly (matched case-insensitively) always wins,
// and empty credentials add nothing.
func ApplyAuth(headers map[string]string, a models.Auth) map[string]string {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}

	name, value := authHeader(a)
	if value == "" || hasHeader(out, name) {
		return out
	}
	out[name] = value
	return out
}

func authHeader(a models.Auth) (string, string) {
	switch v := a.(type) {
	case models.BasicAuth:
		if v.Username == "" && v.Password == "" {
			return "", ""
		}
		creds := base64.StdEncoding.EncodeToString([]byte(v.Username + ":" + v.Password))
		return common.AuthorizationHeader, "Basic " + creds
	case models.BearerAuth:
		if v.Token == "" {
			return "", ""
		}
		return common.AuthorizationHeader, "Bearer " + v.Token
	case models.TokenAuth:
		if v.Token == "" {
			return "", ""
		}
		name := strings.TrimSpace(v.Header)
		if name == "" {
			name = common.AuthorizationHeader
		}
		return name, v.Token
	default:
		return "", ""
	}
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// ok is false for opaque tokens and tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	t, err := claims.GetExpirationTime()
	if err != nil || t == nil {
		return time.Time{}, false
	}
	return t.Time, true
}
