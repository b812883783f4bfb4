package filestorage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Signed URL errors
var (
	ErrSignatureInvalid = errors.New("signature invalid")
	ErrSignatureExpired = errors.New("signature expired")
)

// URLSigner issues and verifies short-lived signed download URLs for
// stored objects, so file access does not require a session.
type URLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewURLSigner creates a signer with the given secret and URL lifetime.
func NewURLSigner(secret string, ttl time.Duration) *URLSigner {
	return &URLSigner{secret: []byte(secret), ttl: ttl}
}

// Sign returns the query string for a signed download of objectPath,
// valid until now+ttl.
func (s *URLSigner) Sign(objectPath string, now time.Time) string {
	expires := now.Add(s.ttl).Unix()
	sig := s.signature(objectPath, expires)

	q := url.Values{}
	q.Set("path", objectPath)
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", sig)
	return q.Encode()
}

// Verify checks the signature and expiry for objectPath.
func (s *URLSigner) Verify(objectPath, expiresStr, signature string, now time.Time) error {
	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return ErrSignatureInvalid
	}

	expected := s.signature(objectPath, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureInvalid
	}

	if now.Unix() > expires {
		return ErrSignatureExpired
	}

	return nil
}

func (s *URLSigner) signature(objectPath string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%d", objectPath, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
