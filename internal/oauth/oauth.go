package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
)

// UserInfo is the verified profile returned by an identity provider.
type UserInfo struct {
	ID         string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	Provider   string
	// Raw is the provider's profile payload as received, persisted alongside
	// the auth-provider link.
	Raw json.RawMessage
}

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*UserInfo, error)
	Name() string
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
