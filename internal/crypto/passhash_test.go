package crypto

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/and161185/evote/internal/model"
)

func TestRandBytes_LengthAndUniqueness(t *testing.T) {
	t.Parallel()

	const n = 64
	a, err := RandBytes(n)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	if len(a) != n {
		t.Fatalf("len=%d, want=%d", len(a), n)
	}
	b, err := RandBytes(n)
	if err != nil {
		t.Fatalf("RandBytes(2): %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two subsequent RandBytes(%d) are equal", n)
	}
}

func TestHashPassword_DeterministicOnSameInput(t *testing.T) {
	t.Parallel()

	pw := []byte("p@ssw0rd")
	salt := []byte("NaCl-16-bytes?")

	h1 := HashPassword(pw, salt)
	h2 := HashPassword(pw, salt)
	if !bytes.Equal(h1, h2) {
		t.Fatalf("hash not deterministic for same input")
	}
	if bytes.Equal(h1, HashPassword(pw, []byte("another-salt----"))) {
		t.Fatalf("hash should differ when salt differs")
	}
	if bytes.Equal(h1, HashPassword([]byte("p@ssw0rd!"), salt)) {
		t.Fatalf("hash should differ when password differs")
	}
}

func TestCredential_RoundTrip(t *testing.T) {
	t.Parallel()

	c, err := NewCredential("correct horse battery staple")
	if err != nil {
		t.Fatalf("NewCredential: %v", err)
	}
	if len(c.Salt) != saltLen || len(c.PwdHash) == 0 {
		t.Fatalf("bad credential: salt=%d hash=%d", len(c.Salt), len(c.PwdHash))
	}
	if !Matches(c, "correct horse battery staple") {
		t.Fatalf("Matches: expected true for correct password")
	}
	if Matches(c, "wrong") {
		t.Fatalf("Matches: expected false for wrong password")
	}

	other, _ := NewCredential("correct horse battery staple")
	if bytes.Equal(c.PwdHash, other.PwdHash) {
		t.Fatalf("same password must hash differently under fresh salts")
	}
}

func TestMatches_EmptyCredential(t *testing.T) {
	t.Parallel()

	if Matches(model.Credential{}, "") {
		t.Fatalf("empty credential must never match")
	}
}

func TestPublicID(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`^VTR-[0-9A-Z]{9}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := PublicID("VTR", 9)
		if err != nil {
			t.Fatalf("PublicID: %v", err)
		}
		if !re.MatchString(id) {
			t.Fatalf("bad id %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 50 {
		t.Fatalf("expected unique ids, got %d distinct", len(seen))
	}
}
