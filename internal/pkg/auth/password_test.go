package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	password := "S3curePassword!"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == password {
		t.Error("HashPassword() returned the plaintext")
	}

	if !CheckPassword(hash, password) {
		t.Error("CheckPassword() = false for correct password")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("CheckPassword() = true for wrong password")
	}
	if CheckPassword("not-a-bcrypt-hash", password) {
		t.Error("CheckPassword() = true for malformed hash")
	}
}
