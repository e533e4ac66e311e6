package utils_test

import (
	"strconv"
	"testing"

	"github.com/Kyz7/wip/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAuthCode(t *testing.T) {
	t.Run("Success - Always six digits in range", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			code, err := utils.GenerateAuthCode()
			require.NoError(t, err)
			assert.Len(t, code, 6)

			n, err := strconv.Atoi(code)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, 111111)
			assert.LessOrEqual(t, n, 999999)
		}
	})
}
