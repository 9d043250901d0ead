package guard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry decodes a bearer token without verifying its signature and
// reports its expiry claim. Display only: authorization decisions always
// go through the backend, never through a local signature check.
func TokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
