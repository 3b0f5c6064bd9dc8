package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPhone(t *testing.T) {
	valid := []string{"+15551234567", "+1 (555) 123-4567", "31612345678"}
	for _, v := range valid {
		assert.True(t, IsPhone(v), v)
	}

	invalid := []string{"", "abc", "+0123", "0612345678", "+1234567890123456"}
	for _, v := range invalid {
		assert.False(t, IsPhone(v), v)
	}
}

func TestFieldErrors(t *testing.T) {
	type input struct {
		Email string `validate:"required,email"`
		Phone string `validate:"required,phone"`
	}

	val := New()
	err := val.Struct(input{Email: "nope", Phone: "abc"})

	fields := FieldErrors(err)
	assert.Equal(t, "email", fields["Email"])
	assert.Equal(t, "phone", fields["Phone"])
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	type input struct {
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
	}

	val := New()
	err := val.StructPartial(input{Email: "nope"}, "Email")

	fields := FieldErrors(err)
	assert.Equal(t, map[string]string{"email": "email"}, fields)
}
