// Package access issues the control tokens that let a device operate a table,
// and hashes the host PIN used to reclaim control.
package access

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// MaxPINLength is the longest PIN bcrypt can hash.
const MaxPINLength = 72

var (
	ErrInvalidToken = errors.New("invalid control token")
	ErrPINRequired  = errors.New("pin is required")
	ErrPINTooLong   = fmt.Errorf("pin longer than %d bytes", MaxPINLength)
)

// IssueControlToken signs an HS256 token granting control of tableID.
func IssueControlToken(secret, tableID string, ttl time.Duration) (string, error) {
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"table_id": tableID,
		"exp":      jwt.NewNumericDate(exp).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign control token: %w", err)
	}
	return signed, nil
}

// ParseControlToken validates token and returns the table it controls.
func ParseControlToken(secret, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	tableID, ok := claims["table_id"].(string)
	if !ok || tableID == "" {
		return "", ErrInvalidToken
	}
	return tableID, nil
}

// HashPIN hashes a host PIN with bcrypt.
func HashPIN(pin string) (string, error) {
	if pin == "" {
		return "", ErrPINRequired
	}
	if len(pin) > MaxPINLength {
		return "", ErrPINTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hashed), nil
}

// CheckPIN reports whether pin matches hashed.
func CheckPIN(hashed, pin string) bool {
	if hashed == "" || pin == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pin)) == nil
}
