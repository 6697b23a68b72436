// internal/app/system/auth/identity.go
package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/system/authz"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrInvalidToken indicates the identity token failed validation.
var ErrInvalidToken = errors.New("auth: invalid identity token")

// Identity is what the portal keeps from the identity provider's token.
type Identity struct {
	Subject string
	Name    string
	Email   string
	Role    authz.Role
	UserID  string
}

// Claims is the identity provider's token payload.
type Claims struct {
	Name           string         `json:"name,omitempty"`
	Email          string         `json:"email,omitempty"`
	PublicMetadata PublicMetadata `json:"public_metadata"`
	jwt.RegisteredClaims
}

// PublicMetadata is the IdP's per-user metadata bag.
type PublicMetadata struct {
	Role string `json:"role,omitempty"`
	DBID FlexID `json:"db_id,omitempty"`
}

// FlexID accepts a JSON string or number.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// Verifier checks HS256 identity tokens issued by the identity provider.
type Verifier struct {
	secret []byte
	leeway time.Duration
}

// NewVerifier returns a verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), leeway: 5 * time.Second}
}

// Parse validates raw and extracts the identity. An absent or unknown role
// claim yields authz.RoleNone rather than an error.
func (v *Verifier) Parse(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(v.secret) == 0 {
		return Identity{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithLeeway(v.leeway))
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		Subject: claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Role:    authz.DeriveRole(claims.PublicMetadata.Role),
		UserID:  string(claims.PublicMetadata.DBID),
	}, nil
}

// IdentityToken picks the token carrying the identity claims: the OIDC
// id_token when the provider sends one, else the access token.
func IdentityToken(tok *oauth2.Token) string {
	if tok == nil {
		return ""
	}
	if id, ok := tok.Extra("id_token").(string); ok && id != "" {
		return id
	}
	return tok.AccessToken
}
