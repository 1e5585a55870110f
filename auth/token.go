package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ahmedsalem001/BOD-Dashboard/apperror"
)

// defaultSecret signs minted tokens. The signature is never verified on
// restore (demo-grade auth, kept deliberately: the token is three base64
// segments that decode without a key), so the secret only shapes the third
// segment.
const defaultSecret = "your-secret-key-change-in-production"

// TokenTTL is how long a minted session token stays valid.
const TokenTTL = 24 * time.Hour

// Claims is the session token payload.
type Claims struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// mintToken creates a signed session token for the user, expiring TokenTTL
// from now.
func mintToken(user User, secret string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(TokenTTL)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// decodeToken decodes a session token WITHOUT verifying its signature and
// checks only the expiry claim. Malformed or expired tokens yield an
// InvalidOrExpiredToken error.
func decodeToken(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, apperror.NewInvalidOrExpiredToken(err)
	}
	if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) {
		return nil, apperror.NewInvalidOrExpiredToken(nil)
	}
	return claims, nil
}
