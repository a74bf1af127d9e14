package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=runner business"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(&signupForm{
		Email:    "kim@example.com",
		Password: "password123",
		Role:     "runner",
		Date:     "2026-09-12",
	})
	assert.NoError(t, err)
}

func TestValidate_FieldMessages(t *testing.T) {
	err := Validate(&signupForm{
		Email:    "not-an-email",
		Password: "short",
		Role:     "admin",
		Date:     "12-09-2026",
	})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	fields := vErr.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
	assert.Equal(t, "must be one of: runner business", fields["Role"])
	assert.Equal(t, "must match the format 2006-01-02", fields["Date"])

	assert.Contains(t, err.Error(), "Email")
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/",
			strings.NewReader(`{"email":"kim@example.com","password":"password123","role":"runner"}`))

		var form signupForm
		require.NoError(t, DecodeAndValidate(req, &form))
		assert.Equal(t, "kim@example.com", form.Email)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":`))

		var form signupForm
		err := DecodeAndValidate(req, &form)
		require.Error(t, err)

		var vErr *ValidationError
		assert.False(t, strings.Contains(err.Error(), "field"), "decode errors are not field errors")
		assert.NotErrorAs(t, err, &vErr)
	})

	t.Run("invalid fields", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"x","password":"p","role":"runner"}`))

		var form signupForm
		err := DecodeAndValidate(req, &form)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}
