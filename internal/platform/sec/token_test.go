// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package sec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	t.Run("distinct across calls", func(t *testing.T) {
		first, err := GenerateSecureToken(32)
		require.NoError(t, err)

		second, err := GenerateSecureToken(32)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("url safe", func(t *testing.T) {
		token, err := GenerateSecureToken(32)
		require.NoError(t, err)
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
		assert.NotContains(t, token, "=")
	})
}

func TestGenerateNumericCode(t *testing.T) {
	t.Run("fixed width with zero padding", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			code, err := GenerateNumericCode(6)
			require.NoError(t, err)
			require.Len(t, code, 6)
			for _, char := range code {
				assert.GreaterOrEqual(t, char, '0')
				assert.LessOrEqual(t, char, '9')
			}
		}
	})

	t.Run("rejects out-of-range lengths", func(t *testing.T) {
		_, err := GenerateNumericCode(0)
		assert.Error(t, err)

		_, err = GenerateNumericCode(19)
		assert.Error(t, err)
	})
}
