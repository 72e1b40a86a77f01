package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerForm struct {
	FirstName string `json:"firstName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"nullable,min=7"`
	Code      string `json:"code" validate:"required,digits=6"`
	Password  string `json:"password" validate:"required,min=6"`
}

func TestStructAllValid(t *testing.T) {
	errs := Struct(registerForm{
		FirstName: "Ade",
		Email:     "ade@example.com",
		Phone:     "08104237317",
		Code:      "123456",
		Password:  "hunter22",
	})
	assert.False(t, HasErrors(errs))
}

func TestStructRequired(t *testing.T) {
	errs := Struct(registerForm{})
	assert.True(t, HasErrors(errs))
	assert.Contains(t, errs, "firstName")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "code")
	// nullable: empty phone is fine
	assert.NotContains(t, errs, "phone")
}

func TestStructEmail(t *testing.T) {
	errs := Struct(registerForm{
		FirstName: "Ade", Email: "not-an-email", Code: "123456", Password: "hunter22",
	})
	assert.Contains(t, errs, "email")
}

func TestStructDigits(t *testing.T) {
	for _, bad := range []string{"12345", "1234567", "12a456"} {
		errs := Struct(registerForm{
			FirstName: "Ade", Email: "a@b.co", Code: bad, Password: "hunter22",
		})
		assert.Contains(t, errs, "code", "code %q should fail", bad)
	}
}

func TestStructMinString(t *testing.T) {
	errs := Struct(registerForm{
		FirstName: "Ade", Email: "a@b.co", Code: "123456", Password: "short",
	})
	assert.Contains(t, errs, "password")
}

func TestStructMinNumeric(t *testing.T) {
	type form struct {
		Amount float64 `json:"amount" validate:"min=1"`
	}
	assert.Contains(t, Struct(form{Amount: 0.5}), "amount")
	assert.NotContains(t, Struct(form{Amount: 2}), "amount")
}

func TestStructNonStructIsNoop(t *testing.T) {
	assert.Empty(t, Struct("not a struct"))
}
