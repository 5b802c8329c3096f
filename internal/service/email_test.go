package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailService_DevModeLogsOnly(t *testing.T) {
	s := NewEmailService("re_live_key", "noreply@example.com", "Jamspace", true)
	assert.Nil(t, s.client)
	assert.NoError(t, s.SendWelcomeEmail(context.Background(), "ana@example.com", "Ana", "Producer"))
}

func TestEmailService_RequiresAPIKeyOutsideDev(t *testing.T) {
	s := NewEmailService("", "noreply@example.com", "Jamspace", false)
	assert.Error(t, s.SendWelcomeEmail(context.Background(), "ana@example.com", "Ana", "Producer"))
}

func TestWelcomeEmailTemplate(t *testing.T) {
	subject, body := welcomeEmailTemplate("Ana", "Producer", "Jamspace")
	assert.Equal(t, "Welcome to Jamspace!", subject)
	assert.Contains(t, body, "Hi Ana,")
	assert.Contains(t, body, "listed under Producer")

	_, body = welcomeEmailTemplate("Ben", "", "Jamspace")
	assert.Contains(t, body, "Your profile is live. Other musicians")
}
