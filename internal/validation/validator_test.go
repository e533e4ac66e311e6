package validation_test

import (
	"testing"

	"github.com/Kyz7/wip/internal/validation"
	"github.com/stretchr/testify/assert"
)

type signupBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Nickname string `json:"nickname" validate:"required,max=8"`
}

type nested struct {
	Items []item `json:"items" validate:"required,dive"`
}

type item struct {
	Name string `json:"name" validate:"required"`
}

func TestStruct(t *testing.T) {
	t.Run("Success - Valid body has no errors", func(t *testing.T) {
		errs := validation.Struct(&signupBody{Email: "a@b.com", Password: "x", Nickname: "nick"})
		assert.Nil(t, errs)
	})

	t.Run("Error - Messages keyed by json name", func(t *testing.T) {
		errs := validation.Struct(&signupBody{Email: "nope", Nickname: "much-too-long"})
		assert.Equal(t, "email must be a valid email address", errs["email"])
		assert.Equal(t, "password is required", errs["password"])
		assert.Equal(t, "nickname must be at most 8", errs["nickname"])
	})

	t.Run("Error - Nested fields use dotted paths", func(t *testing.T) {
		errs := validation.Struct(&nested{Items: []item{{Name: ""}}})
		assert.Contains(t, errs, "items[0].name")
	})
}
