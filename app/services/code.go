package services

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

var codeRange = big.NewInt(900000)

// GenerateCode returns a 6-digit code in [100000, 999999], used for both
// email verification and password reset.
func GenerateCode() string {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// nothing sensible to do but panic.
		panic("services: code generation: " + err.Error())
	}
	return strconv.FormatInt(n.Int64()+100000, 10)
}
