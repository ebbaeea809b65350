// Package session is the console's view of the logged-in user: where the
// bearer token comes from and what its claims say. Verifying the token is the
// API's job; the console only reads the claims to decide what to show.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"

	"photojay_admin/internal/model"
)

// ErrNoToken is returned when no access token is available.
var ErrNoToken = errors.New("no access token")

// TokenSource supplies the bearer token attached to every API call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource backed by a fixed token (e.g. ACCESS_TOKEN).
type StaticToken string

// Token returns the token or ErrNoToken when it is blank.
func (t StaticToken) Token(context.Context) (string, error) {
	tok := strings.TrimSpace(string(t))
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// Claims are the identity fields the console reads from an access token.
type Claims struct {
	UserID   int64
	UserName string
	Role     string
}

// IsAdmin reports whether the user may open the moderation view.
func (c Claims) IsAdmin() bool {
	return strings.EqualFold(c.Role, model.RoleAdmin)
}

// Initials returns the first two letters of the user name in upper case.
func (c Claims) Initials() string {
	name := strings.TrimSpace(c.UserName)
	if name == "" {
		return ""
	}
	if utf8.RuneCountInString(name) > 2 {
		name = string([]rune(name)[:2])
	}
	return strings.ToUpper(name)
}

// ParseClaims decodes token claims without checking the signature.
func ParseClaims(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrNoToken
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("parse token claims: %w", err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("unexpected token claims type")
	}

	var c Claims
	// JSON numbers decode as float64
	if v, ok := mc["user_id"].(float64); ok {
		c.UserID = int64(v)
	}
	if v, ok := mc["user_name"].(string); ok {
		c.UserName = v
	}
	if v, ok := mc["role"].(string); ok {
		c.Role = v
	}
	return c, nil
}
