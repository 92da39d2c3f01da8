// Package token issues and verifies the signed bot-check tokens handed out
// by the mock partner service.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalid  = errors.New("invalid token")
	ErrExpired  = errors.New("token expired")
	ErrMismatch = errors.New("token not issued for this site key and action")
)

// Field limits keep tokens small enough for a request body.
const (
	MaxSiteKeyLength = 100
	MaxActionLength  = 50
)

type payload struct {
	SiteKey string `json:"k"`
	Action  string `json:"a"`
	TS      int64  `json:"t"`
}

// Claims are the verified contents of a token.
type Claims struct {
	SiteKey  string
	Action   string
	IssuedAt time.Time
}

func validate(siteKey, action string) error {
	if siteKey == "" {
		return fmt.Errorf("site key cannot be empty")
	}
	if len(siteKey) > MaxSiteKeyLength {
		return fmt.Errorf("site key too long: %d chars, max %d", len(siteKey), MaxSiteKeyLength)
	}
	if len(action) > MaxActionLength {
		return fmt.Errorf("action too long: %d chars, max %d", len(action), MaxActionLength)
	}
	return nil
}

// Generate creates a signed token for siteKey and action.
func Generate(siteKey, action string, secret []byte) (string, error) {
	return generateAt(siteKey, action, time.Now(), secret)
}

func generateAt(siteKey, action string, now time.Time, secret []byte) (string, error) {
	if err := validate(siteKey, action); err != nil {
		return "", err
	}
	data, err := json.Marshal(payload{SiteKey: siteKey, Action: action, TS: now.Unix()})
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(data)
	sig := mac.Sum(nil)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(data) + "." + enc.EncodeToString(sig), nil
}

// Verify checks the token integrity and expiry and returns its claims.
func Verify(token string, secret []byte, ttl time.Duration) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return Claims{}, ErrInvalid
	}
	enc := base64.RawURLEncoding
	data, err := enc.DecodeString(parts[0])
	if err != nil {
		return Claims{}, ErrInvalid
	}
	sig, err := enc.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalid
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(data)
	if !hmac.Equal(mac.Sum(nil), sig) {
		return Claims{}, ErrInvalid
	}

	var pl payload
	if err := json.Unmarshal(data, &pl); err != nil {
		return Claims{}, ErrInvalid
	}
	issued := time.Unix(pl.TS, 0)
	if ttl > 0 && time.Since(issued) > ttl {
		return Claims{}, ErrExpired
	}
	return Claims{SiteKey: pl.SiteKey, Action: pl.Action, IssuedAt: issued}, nil
}

// VerifyFor is Verify plus a check that the token was minted for siteKey
// and action.
func VerifyFor(token, siteKey, action string, secret []byte, ttl time.Duration) (Claims, error) {
	c, err := Verify(token, secret, ttl)
	if err != nil {
		return c, err
	}
	if c.SiteKey != siteKey || c.Action != action {
		return c, ErrMismatch
	}
	return c, nil
}
