package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenUUID(t *testing.T) {
	id := GenUUID()
	assert.True(t, IsUUID(id))
	assert.NotEqual(t, id, GenUUID())
}

func TestIsUUID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"6f1c2a4e-8a59-4bb8-9a43-3f0a0f7b1c2d", true},
		{"6F1C2A4E-8A59-4BB8-9A43-3F0A0F7B1C2D", true},
		{"", false},
		{"not-an-id", false},
		{"6f1c2a4e8a594bb89a433f0a0f7b1c2d", false},
		{"urn:uuid:6f1c2a4e-8a59-4bb8-9a43-3f0a0f7b1c2d", false},
		{"65a1b2c3d4e5f6a7b8c9d0e1", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, IsUUID(test.in), test.in)
	}
}

func TestGenShortID(t *testing.T) {
	id := GenShortID()
	assert.Len(t, id, 22)
	assert.NotEqual(t, id, GenShortID())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@example.com", NormalizeEmail("  Ann@Example.COM "))
}

func TestHasPrefixes(t *testing.T) {
	assert.True(t, HasPrefixes("/api/ai/generate", "/api/auth", "/api/ai"))
	assert.False(t, HasPrefixes("/healthz", "/api"))
	assert.False(t, HasPrefixes("/healthz"))
}
