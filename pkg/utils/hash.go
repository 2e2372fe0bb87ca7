package utils

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
)

// HMACSHA1Hex returns the hex encoded HMAC-SHA1 of data, the scheme Vercel
// uses for the x-vercel-signature header.
func HMACSHA1Hex(secret, data []byte) string {
	mac := hmac.New(sha1.New, secret)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// EqualSignature compares two hex signatures in constant time.
func EqualSignature(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
