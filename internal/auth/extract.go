package auth

import (
	"net/http"
	"strings"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

const bearerPrefix = "bearer "

// ExtractToken returns the session token presented by r. The token cookie
// takes precedence over an Authorization bearer header. Absence is reported
// with ok=false and is not an error.
func ExtractToken(r *http.Request) (token string, ok bool) {
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		if v := strings.TrimSpace(cookie.Value); v != "" {
			return v, true
		}
	}
	if v := bearerToken(r.Header.Get("Authorization")); v != "" {
		return v, true
	}
	return "", false
}

func bearerToken(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
