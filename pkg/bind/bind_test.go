package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func request(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestJSONBindsValidBody(t *testing.T) {
	var form loginForm
	errs, err := JSON(request(`{"email":"ade@example.com","password":"hunter22"}`), &form)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "ade@example.com", form.Email)
	assert.Equal(t, "hunter22", form.Password)
}

func TestJSONReturnsValidationErrors(t *testing.T) {
	var form loginForm
	errs, err := JSON(request(`{"email":"nope"}`), &form)
	require.NoError(t, err)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestJSONRejectsMalformedBody(t *testing.T) {
	var form loginForm
	_, err := JSON(request(`{"email":`), &form)
	assert.Error(t, err)
}

func TestJSONRejectsOversizedBody(t *testing.T) {
	var form loginForm
	big := `{"email":"a@b.co","password":"` + strings.Repeat("x", 11<<20) + `"}`
	_, err := JSON(request(big), &form)
	assert.Error(t, err)
}
