package crypto_test

import (
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/crypto"
)

func TestPBKDF2Hasher_HashAndVerify(t *testing.T) {
	h := crypto.NewPBKDF2Hasher()

	hash, salt, err := h.Hash("correct horse battery")
	require.NoError(t, err)
	assert.Len(t, hash, 32)
	assert.Len(t, salt, 16)

	assert.True(t, h.Verify("correct horse battery", hash, salt))
	assert.False(t, h.Verify("correct horse batterY", hash, salt))
	assert.False(t, h.Verify("", hash, salt))
}

// Stored credentials depend on these exact parameters: HMAC-SHA256,
// 10000 iterations and a 32-byte key.
func TestPBKDF2Hasher_KnownAnswer(t *testing.T) {
	h := crypto.NewPBKDF2Hasher()
	want, err := hex.DecodeString("bffd85b4611377be92820c4746be32f2e5494b9abd162889cadba5b1d4afd9fb")
	require.NoError(t, err)

	got := h.HashWithSalt("Disaster#Response1", []byte("0123456789abcdef"))

	assert.Equal(t, want, got)
	assert.True(t, h.Verify("Disaster#Response1", want, []byte("0123456789abcdef")))
}

func TestPBKDF2Hasher_SaltsDiffer(t *testing.T) {
	h := crypto.NewPBKDF2Hasher()

	hash1, salt1, err := h.Hash("password123")
	require.NoError(t, err)
	hash2, salt2, err := h.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, h.HashWithSalt("password123", salt1))
}

func TestPBKDF2Hasher_VerifyRejectsWrongLength(t *testing.T) {
	h := crypto.NewPBKDF2Hasher()
	_, salt, err := h.Hash("password123")
	require.NoError(t, err)

	assert.False(t, h.Verify("password123", []byte{1, 2, 3}, salt))
}

func TestRandomTokenGenerator(t *testing.T) {
	g := crypto.NewRandomTokenGenerator()

	a, err := g.Generate()
	require.NoError(t, err)
	b, err := g.Generate()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, crypto.HashToken(a), crypto.HashToken(a))
	assert.NotEqual(t, a, crypto.HashToken(a))
}

func TestUUIDGenerator(t *testing.T) {
	id, err := crypto.NewUUIDGenerator().NewID()
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}
