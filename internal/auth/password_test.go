package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(4) // MinCost keeps the test fast

	hash, err := h.Hash("S3cret!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "S3cret!pass", hash)

	assert.True(t, h.Verify(hash, "S3cret!pass"))
}

func TestHasherSaltsAreRandom(t *testing.T) {
	h := NewHasher(4)

	first, err := h.Hash("password123")
	require.NoError(t, err)
	second, err := h.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same secret must hash differently")
	assert.True(t, h.Verify(first, "password123"))
	assert.True(t, h.Verify(second, "password123"))
}

func TestHasherRejectsWrongSecret(t *testing.T) {
	h := NewHasher(4)

	hash, err := h.Hash("correct-horse")
	require.NoError(t, err)

	assert.False(t, h.Verify(hash, "wrong-horse"))
	assert.False(t, h.Verify(hash, ""))
}

func TestHasherMalformedHash(t *testing.T) {
	h := NewHasher(4)

	assert.False(t, h.Verify("", "anything"))
	assert.False(t, h.Verify("not-a-bcrypt-hash", "anything"))
}

func TestNewHasherClampsCost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"zero selects default", 0, DefaultHashCost},
		{"below min clamps", 1, 4},
		{"above max clamps", 40, 31},
		{"in range kept", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHasher(tt.cost)
			assert.Equal(t, tt.want, h.cost)
		})
	}
}
