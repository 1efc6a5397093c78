package integration

import (
	"maps"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestClaims holds the configurable claims for generating test JWT tokens.
type TestClaims struct {
	SubjectID    string
	SocietyID    string
	Email        string
	Roles        []string
	Capabilities []string
	Extra        map[string]any
}

// tokenIssuer signs HS256 JWTs with a shared test key, matching the
// console's signing-key verification.
type tokenIssuer struct {
	key      []byte
	issuer   string
	audience string
}

func newTokenIssuer(t *testing.T) *tokenIssuer {
	t.Helper()
	return &tokenIssuer{
		key:      []byte("integration-test-signing-key"),
		issuer:   "https://auth.test.veranda.dev",
		audience: "veranda-console-test",
	}
}

// GenerateToken creates a valid, signed JWT token with the given claims.
func (ti *tokenIssuer) GenerateToken(claims TestClaims) string {
	now := time.Now()

	mapClaims := jwt.MapClaims{
		"iss":        ti.issuer,
		"aud":        ti.audience,
		"iat":        jwt.NewNumericDate(now),
		"exp":        jwt.NewNumericDate(now.Add(1 * time.Hour)),
		"sub":        claims.SubjectID,
		"society_id": claims.SocietyID,
		"email":      claims.Email,
	}

	if len(claims.Roles) > 0 {
		roles := make([]any, len(claims.Roles))
		for i, r := range claims.Roles {
			roles[i] = r
		}
		mapClaims["roles"] = roles
	}
	if len(claims.Capabilities) > 0 {
		caps := make([]any, len(claims.Capabilities))
		for i, c := range claims.Capabilities {
			caps[i] = c
		}
		mapClaims["caps"] = caps
	}

	maps.Copy(mapClaims, claims.Extra)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString(ti.key)
	if err != nil {
		panic("sign JWT: " + err.Error())
	}
	return signed
}

// GenerateExpiredToken creates a JWT token that expired in the past.
func (ti *tokenIssuer) GenerateExpiredToken(claims TestClaims) string {
	now := time.Now()

	mapClaims := jwt.MapClaims{
		"iss":        ti.issuer,
		"aud":        ti.audience,
		"iat":        jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		"exp":        jwt.NewNumericDate(now.Add(-1 * time.Hour)),
		"sub":        claims.SubjectID,
		"society_id": claims.SocietyID,
		"email":      claims.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString(ti.key)
	if err != nil {
		panic("sign JWT: " + err.Error())
	}
	return signed
}

// Key returns the shared signing key.
func (ti *tokenIssuer) Key() []byte {
	return ti.key
}

// Issuer returns the expected token issuer claim.
func (ti *tokenIssuer) Issuer() string {
	return ti.issuer
}

// Audience returns the expected token audience claim.
func (ti *tokenIssuer) Audience() string {
	return ti.audience
}
