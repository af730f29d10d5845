package subscribers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// TokenSigner signs unsubscribe links so a list member cannot opt out
// someone else by guessing their address.
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner creates a signer over the configured secret.
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

// Token returns the hex HMAC-SHA256 of the normalized contact.
func (s *TokenSigner) Token(contact string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(contact))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether token is valid for contact. Constant-time.
func (s *TokenSigner) Verify(contact, token string) bool {
	want, err := hex.DecodeString(token)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(contact))
	return hmac.Equal(mac.Sum(nil), want)
}
