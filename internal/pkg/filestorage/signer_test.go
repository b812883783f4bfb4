package filestorage

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestURLSigner_RoundTrip(t *testing.T) {
	signer := NewURLSigner("test-secret", time.Minute)
	now := time.Now()

	query, err := url.ParseQuery(signer.Sign("notes/42/manual.pdf", now))
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	err = signer.Verify(query.Get("path"), query.Get("expires"), query.Get("signature"), now)
	if err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
}

func TestURLSigner_TamperedPathRejected(t *testing.T) {
	signer := NewURLSigner("test-secret", time.Minute)
	now := time.Now()

	query, _ := url.ParseQuery(signer.Sign("notes/42/manual.pdf", now))

	err := signer.Verify("notes/42/other.pdf", query.Get("expires"), query.Get("signature"), now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Verify() with tampered path error = %v, want ErrSignatureInvalid", err)
	}
}

func TestURLSigner_TamperedExpiryRejected(t *testing.T) {
	signer := NewURLSigner("test-secret", time.Minute)
	now := time.Now()

	query, _ := url.ParseQuery(signer.Sign("notes/42/manual.pdf", now))

	// Pushing the expiry out without re-signing must fail.
	err := signer.Verify(query.Get("path"), "9999999999", query.Get("signature"), now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Verify() with tampered expiry error = %v, want ErrSignatureInvalid", err)
	}
}

func TestURLSigner_MalformedExpiryRejected(t *testing.T) {
	signer := NewURLSigner("test-secret", time.Minute)

	err := signer.Verify("notes/42/manual.pdf", "not-a-number", "deadbeef", time.Now())
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Verify() with malformed expiry error = %v, want ErrSignatureInvalid", err)
	}
}

func TestURLSigner_ExpiredLink(t *testing.T) {
	signer := NewURLSigner("test-secret", time.Minute)
	now := time.Now()

	query, _ := url.ParseQuery(signer.Sign("notes/42/manual.pdf", now))

	err := signer.Verify(query.Get("path"), query.Get("expires"), query.Get("signature"), now.Add(2*time.Minute))
	if !errors.Is(err, ErrSignatureExpired) {
		t.Errorf("Verify() past expiry error = %v, want ErrSignatureExpired", err)
	}
}

func TestURLSigner_DifferentSecret(t *testing.T) {
	now := time.Now()
	query, _ := url.ParseQuery(NewURLSigner("secret-a", time.Minute).Sign("notes/42/manual.pdf", now))

	err := NewURLSigner("secret-b", time.Minute).Verify(query.Get("path"), query.Get("expires"), query.Get("signature"), now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Verify() with wrong secret error = %v, want ErrSignatureInvalid", err)
	}
}
