package dto

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Signup(t *testing.T) {
	ok := &SignupRequest{Name: "Alice", Email: "alice@example.com", Phone: "+905551112233", Password: "secret123"}
	assert.NoError(t, Validate(ok))

	err := Validate(&SignupRequest{Name: "", Email: "nope", Phone: "abc", Password: "123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	msgs := apperr.As(err).Messages
	assert.Contains(t, msgs, "name is required")
	assert.Contains(t, msgs, "Enter a valid email")
	assert.Contains(t, msgs, "Enter a valid phone number")
	assert.Contains(t, msgs, "password must be at least 6 characters long")
}

func TestValidate_Review(t *testing.T) {
	valid := &CreateReviewRequest{Title: "t", Text: "x", Rating: 5, Product: uuid.NewString()}
	assert.NoError(t, Validate(valid))

	tests := []struct {
		name string
		req  *CreateReviewRequest
		msg  string
	}{
		{"rating too high", &CreateReviewRequest{Title: "t", Text: "x", Rating: 6, Product: uuid.NewString()}, "Enter a valid rating from 1 to 5"},
		{"rating too low", &CreateReviewRequest{Title: "t", Text: "x", Rating: -1, Product: uuid.NewString()}, "Enter a valid rating from 1 to 5"},
		{"rating missing", &CreateReviewRequest{Title: "t", Text: "x", Product: uuid.NewString()}, "rating is required"},
		{"bad product id", &CreateReviewRequest{Title: "t", Text: "x", Rating: 3, Product: "42"}, "Invalid product ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			require.Error(t, err)
			assert.Contains(t, apperr.As(err).Messages, tt.msg)
		})
	}
}

func TestValidate_RoleAndCategory(t *testing.T) {
	err := Validate(&CreateUserRequest{Name: "a", Email: "a@example.com", Phone: "+905551112233", Password: "secret123", Role: "root"})
	require.Error(t, err)
	assert.Contains(t, apperr.As(err).Messages, "Enter a valid role")

	err = Validate(&CreateProductRequest{Title: "x", Description: "y", Category: "furniture"})
	require.Error(t, err)
	assert.Contains(t, apperr.As(err).Messages, "Enter a valid category")

	assert.NoError(t, Validate(&UpdateUserRequest{Name: "a", Phone: "+905551112233"}))
}
