package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSHA1Hex(t *testing.T) {
	// RFC 2202 test case 2.
	got := HMACSHA1Hex([]byte("Jefe"), []byte("what do ya want for nothing?"))
	assert.Equal(t, "effcdf6ae5eb2fa2d27416d5f184df9c259a7c79", got)
}

func TestEqualSignature(t *testing.T) {
	assert.True(t, EqualSignature("abc", "abc"))
	assert.False(t, EqualSignature("abc", "abd"))
	assert.False(t, EqualSignature("", "abc"))
}
