package game

import "math/rand/v2"

const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	DefaultCodeLength = 5
)

// GenerateCode returns a random session code over [A-Za-z0-9]. Uniqueness is
// enforced by the registry, not here.
func GenerateCode(length int) string {
	if length <= 0 {
		length = DefaultCodeLength
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}
