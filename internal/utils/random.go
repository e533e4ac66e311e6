package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	authCodeMin = 111111
	authCodeMax = 999999
)

// GenerateAuthCode returns a six digit code in [111111, 999999].
func GenerateAuthCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(authCodeMax-authCodeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+authCodeMin, 10), nil
}
