package common

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const seedAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomSeed returns a random lowercase base36 string of length n, used as the
// avatar seed when a user is created without one.
func RandomSeed(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	max := big.NewInt(int64(len(seedAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(seedAlphabet[idx.Int64()])
	}
	return sb.String(), nil
}
