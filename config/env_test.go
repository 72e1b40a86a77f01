package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "adeqsite", MongoDB())
	assert.Equal(t, "smtp.gmail.com", MailHost())
	assert.Equal(t, "587", MailPort())
	assert.Equal(t, "ADEQ Water Solutions", MailFromName())
	assert.Equal(t, "public/data", DataDir())
	assert.Equal(t, "local", StorageDefault())
}

func TestGetFallback(t *testing.T) {
	assert.Equal(t, "fallback", Get("NO_SUCH_KEY", "fallback"))
	assert.Equal(t, MongoDB(), Get("MONGO_DB", "other"))
}

func TestSetOverride(t *testing.T) {
	prev := Get("MAIL_FROM_NAME", "")
	defer Set("MAIL_FROM_NAME", prev)

	Set("MAIL_FROM_NAME", "Override Inc")
	assert.Equal(t, "Override Inc", MailFromName())
}

func TestMailFromFallsBackToUser(t *testing.T) {
	prevFrom := Get("MAIL_FROM", "")
	prevUser := Get("EMAIL_USER", "")
	defer func() {
		Set("MAIL_FROM", prevFrom)
		Set("EMAIL_USER", prevUser)
	}()

	Set("MAIL_FROM", "")
	Set("EMAIL_USER", "account@example.com")
	assert.Equal(t, "account@example.com", MailFrom())

	Set("MAIL_FROM", "sender@example.com")
	assert.Equal(t, "sender@example.com", MailFrom())
}

func TestRequireSecrets(t *testing.T) {
	prevEnv := Get("APP_ENV", "")
	prevSecret := Get("JWT_SECRET", "")
	defer func() {
		Set("APP_ENV", prevEnv)
		Set("JWT_SECRET", prevSecret)
	}()

	Set("APP_ENV", "local")
	Set("JWT_SECRET", "")
	assert.NoError(t, RequireSecrets())

	Set("APP_ENV", "production")
	err := RequireSecrets()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	Set("JWT_SECRET", "some-secret")
	assert.NoError(t, RequireSecrets())
}
