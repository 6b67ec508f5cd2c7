package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("rahasia1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if digest == "rahasia1" {
		t.Fatalf("digest must not equal the plaintext")
	}

	if !CheckPassword("rahasia1", digest) {
		t.Fatalf("CheckPassword rejected the correct password")
	}
	if CheckPassword("rahasia2", digest) {
		t.Fatalf("CheckPassword accepted a wrong password")
	}
}

func TestHashPassword_SaltsIndependently(t *testing.T) {
	t.Parallel()

	d1, err := HashPassword("rahasia1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	d2, err := HashPassword("rahasia1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("two digests of the same password must differ")
	}
}

func TestCheckPassword_MalformedDigest(t *testing.T) {
	t.Parallel()

	if CheckPassword("rahasia1", "not-a-bcrypt-digest") {
		t.Fatalf("CheckPassword must fail closed on a malformed digest")
	}
}
