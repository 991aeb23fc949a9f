// Package crypto implements server-side credential hashing and public id generation.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"

	"golang.org/x/crypto/argon2"

	"github.com/and161185/evote/internal/model"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32

	saltLen = 16
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns Argon2id hash of password using the provided salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword verifies password against expected Argon2id hash and salt.
func VerifyPassword(password, salt, expected []byte) bool {
	got := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}

// NewCredential hashes password with a fresh random salt.
func NewCredential(password string) (model.Credential, error) {
	salt, err := RandBytes(saltLen)
	if err != nil {
		return model.Credential{}, err
	}
	return model.Credential{PwdHash: HashPassword([]byte(password), salt), Salt: salt}, nil
}

// Matches reports whether password matches the stored credential.
func Matches(c model.Credential, password string) bool {
	if len(c.PwdHash) == 0 {
		return false
	}
	return VerifyPassword([]byte(password), c.Salt, c.PwdHash)
}

const publicIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PublicID returns prefix + "-" + n random upper-case base36 characters, e.g. VTR-7Q2K9ZB1M.
func PublicID(prefix string, n int) (string, error) {
	out := make([]byte, 0, len(prefix)+1+n)
	out = append(out, prefix...)
	out = append(out, '-')
	max := big.NewInt(int64(len(publicIDAlphabet)))
	for i := 0; i < n; i++ {
		k, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out = append(out, publicIDAlphabet[k.Int64()])
	}
	return string(out), nil
}
