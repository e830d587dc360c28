package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ErlanBelekov/job-tracker/internal/security"
)

// Cheap parameters keep the suite fast; the encoding is the same.
func newHasher() *security.Argon2 {
	a := security.NewArgon2()
	a.Memory = 1024
	a.Iterations = 1
	return a
}

func TestHash_VerifiesOriginalPassword(t *testing.T) {
	a := newHasher()

	hash, err := a.Hash("Passw0rd")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=2$") {
		t.Errorf("unexpected encoding %q", hash)
	}

	ok, err := a.Verify("Passw0rd", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("expected password to verify")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	a := newHasher()
	hash, _ := a.Hash("Passw0rd")

	ok, err := a.Verify("passw0rd", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("wrong password must not verify")
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	a := newHasher()
	h1, _ := a.Hash("Passw0rd")
	h2, _ := a.Hash("Passw0rd")
	if h1 == h2 {
		t.Error("two hashes of the same password must differ")
	}
}

func TestVerify_UsesStoredParameters(t *testing.T) {
	hash, _ := newHasher().Hash("Passw0rd")

	// A hasher configured differently still verifies older hashes.
	ok, err := security.NewArgon2().Verify("Passw0rd", hash)
	if err != nil || !ok {
		t.Fatalf("verify with default params: ok=%v err=%v", ok, err)
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$garbage$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=2$!!!$a2V5",
	} {
		_, err := newHasher().Verify("x", encoded)
		if !errors.Is(err, security.ErrInvalidHash) {
			t.Errorf("Verify(%q) err = %v, want ErrInvalidHash", encoded, err)
		}
	}
}
