package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/constants"
)

type PasswordHasher interface {
	Hash(password string) (hash []byte, salt []byte, err error)
	HashWithSalt(password string, salt []byte) []byte
	Verify(password string, hash, salt []byte) bool
}

// PBKDF2Hasher derives HMAC-SHA256 keys. Stored hashes are only comparable
// with the same iteration count and key size, so both are fixed per instance.
type PBKDF2Hasher struct {
	iterations int
	keySize    int
	saltSize   int
}

func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{
		iterations: constants.PasswordHashIterations,
		keySize:    constants.PasswordKeySize,
		saltSize:   constants.PasswordSaltSize,
	}
}

func (h *PBKDF2Hasher) Hash(password string) ([]byte, []byte, error) {
	salt := make([]byte, h.saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}
	return h.HashWithSalt(password, salt), salt, nil
}

func (h *PBKDF2Hasher) HashWithSalt(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, h.iterations, h.keySize, sha256.New)
}

func (h *PBKDF2Hasher) Verify(password string, hash, salt []byte) bool {
	computed := h.HashWithSalt(password, salt)
	return subtle.ConstantTimeCompare(computed, hash) == 1
}
