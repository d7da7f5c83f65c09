package crypto

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "secret" {
		t.Fatalf("expected hash to differ from plaintext")
	}
	ok, err := CheckPassword(hash, "secret")
	if err != nil || !ok {
		t.Fatalf("expected password to match, got ok=%v err=%v", ok, err)
	}
	ok, err = CheckPassword(hash, "wrong")
	if err != nil || ok {
		t.Fatalf("expected clean mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestPasswordCost(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost error: %v", err)
	}
	if cost != PasswordCost {
		t.Fatalf("expected cost %d, got %d", PasswordCost, cost)
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, _ := HashPassword("secret")
	second, _ := HashPassword("secret")
	if first == second {
		t.Fatalf("expected distinct hashes for the same password")
	}
}

func TestPasswordTooLong(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Fatalf("expected 72 bytes to hash, got %v", err)
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	ok, err := CheckPassword("not-a-hash", "secret")
	if ok || err == nil {
		t.Fatalf("expected error for malformed hash, got ok=%v err=%v", ok, err)
	}
}

func TestCheckPasswordRejectsLongerInputWithSamePrefix(t *testing.T) {
	password := strings.Repeat("a", MaxPasswordBytes)
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	ok, err := CheckPassword(hash, password+"-suffix")
	if err != nil || ok {
		t.Fatalf("expected clean mismatch for over-long password, got ok=%v err=%v", ok, err)
	}
	if ok, err := CheckPassword(hash, password); err != nil || !ok {
		t.Fatalf("expected exact password to match, got ok=%v err=%v", ok, err)
	}
}
