package utils_test

import (
	"strings"
	"testing"

	"github.com/Kyz7/wip/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("Success - Hash verifies against its plaintext", func(t *testing.T) {
		hashed, err := utils.HashPassword("longenough1")
		require.NoError(t, err)
		assert.NotEqual(t, "longenough1", hashed)
		assert.True(t, utils.CheckPasswordHash("longenough1", hashed))
	})

	t.Run("Success - Same plaintext gets a fresh salt", func(t *testing.T) {
		first, err := utils.HashPassword("longenough1")
		require.NoError(t, err)
		second, err := utils.HashPassword("longenough1")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("Error - Different plaintext does not verify", func(t *testing.T) {
		hashed, err := utils.HashPassword("longenough1")
		require.NoError(t, err)
		assert.False(t, utils.CheckPasswordHash("longenough2", hashed))
	})

	t.Run("Error - Long inputs sharing a prefix stay distinct", func(t *testing.T) {
		prefix := strings.Repeat("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.", 3)
		hashed, err := utils.HashPassword(prefix + "first")
		require.NoError(t, err)
		assert.True(t, utils.CheckPasswordHash(prefix+"first", hashed))
		assert.False(t, utils.CheckPasswordHash(prefix+"second", hashed))
	})

	t.Run("Error - Garbage digest returns false", func(t *testing.T) {
		assert.False(t, utils.CheckPasswordHash("longenough1", "not-a-bcrypt-digest"))
	})
}
