// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// GenerateSecureToken returns a URL-safe random token built from byteLength
// bytes of OS entropy.
//
// At 32 bytes the random space is large enough that collisions against
// concurrently pending tokens are not a practical concern; the database
// uniqueness constraint backstops the theoretical case. The generator is
// stateless; expiry policy belongs to the caller.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read entropy: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// GenerateNumericCode returns a zero-padded random code of the given number
// of decimal digits, for flows where a human types the value (password
// reset). Same single-use, bounded-lifetime contract as the opaque token.
func GenerateNumericCode(digits int) (string, error) {
	if digits < 1 || digits > 18 {
		return "", fmt.Errorf("sec: numeric code length out of range: %d", digits)
	}

	// Uniform draw from [0, 10^digits) to avoid modulo bias.
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	value, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("sec: failed to read entropy: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, value), nil
}
