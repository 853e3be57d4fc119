package mail

import (
	"bytes"
	"testing"

	"medical-clinic-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer_DisabledWithoutHost(t *testing.T) {
	assert.Nil(t, NewMailer(config.SMTPConfig{}))
}

func TestBuildMessage(t *testing.T) {
	m := NewMailer(config.SMTPConfig{Host: "smtp.clinic.test", Port: 587, Username: "noreply@clinic.test"})
	require.NotNil(t, m)

	msg := m.BuildMessage("jane@clinic.test", "Appointment approved", "See you on Monday")

	assert.Equal(t, []string{"noreply@clinic.test"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"jane@clinic.test"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Appointment approved"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "See you on Monday")
}
