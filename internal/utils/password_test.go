package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", digest)
	assert.True(t, h.Verify("s3cret", digest))
	assert.False(t, h.Verify("wrong", digest))
	assert.False(t, h.Verify("s3cret", "not-a-digest"))
}

func TestNewHasher_CostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).Cost)
	assert.Equal(t, 12, NewHasher(12).Cost)
}
