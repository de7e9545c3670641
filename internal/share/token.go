// Package share issues and verifies signed report share tokens.
package share

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chatlens/chatlens/internal/model"
)

var (
	// ErrInvalidToken is returned when a token is malformed or its signature does not match.
	ErrInvalidToken = errors.New("invalid share token")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("share token expired")
	// ErrEmptySecret is returned by NewSigner without a secret.
	ErrEmptySecret = errors.New("share secret is empty")
)

// DefaultTokenTTL is how long a share token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Payload is the signed content of a share token.
type Payload struct {
	ReportID string             `json:"reportId"`
	Variant  model.ShareVariant `json:"variant"`
	Exp      int64              `json:"exp"` // Unix seconds
	Nonce    string             `json:"nonce"`
}

// ExpiresAt returns the payload expiry as a time.
func (p Payload) ExpiresAt() time.Time {
	return time.Unix(p.Exp, 0).UTC()
}

// Signer issues and verifies tokens of the form base64url(payload).hexsig.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a Signer. A zero ttl uses DefaultTokenTTL and a nil now
// uses time.Now.
func NewSigner(secret string, ttl time.Duration, now func() time.Time) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: now}, nil
}

// Issue signs a new token for the report and variant.
func (s *Signer) Issue(reportID string, variant model.ShareVariant) (string, Payload, error) {
	p := Payload{
		ReportID: reportID,
		Variant:  variant,
		Exp:      s.now().Add(s.ttl).Unix(),
		Nonce:    uuid.NewString(),
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", Payload{}, fmt.Errorf("failed to encode share payload: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(data)
	return encoded + "." + s.sign(encoded), p, nil
}

// Verify checks the signature and expiry of token and returns its payload.
func (s *Signer) Verify(token string) (Payload, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || sig == "" {
		return Payload{}, ErrInvalidToken
	}

	if !hmac.Equal([]byte(s.sign(encoded)), []byte(sig)) {
		return Payload{}, ErrInvalidToken
	}

	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, ErrInvalidToken
	}
	if p.ReportID == "" || !p.Variant.IsValid() {
		return Payload{}, ErrInvalidToken
	}

	if !s.now().Before(p.ExpiresAt()) {
		return Payload{}, ErrTokenExpired
	}

	return p, nil
}

// sign returns the hex HMAC-SHA256 of the encoded payload.
func (s *Signer) sign(encoded string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encoded))
	return hex.EncodeToString(mac.Sum(nil))
}
