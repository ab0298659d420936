package smtp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/mail"
)

func TestNewSender_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "enabled without host",
			config:  Config{Enabled: true, FromAddress: "noreply@example.com"},
			wantErr: "host is required",
		},
		{
			name:    "enabled without from address",
			config:  Config{Enabled: true, Host: "smtp.example.com"},
			wantErr: "from address is required",
		},
		{
			name:   "disabled - no validation",
			config: Config{},
		},
		{
			name:   "valid config",
			config: Config{Enabled: true, Host: "smtp.example.com", FromAddress: "noreply@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewSender(tt.config)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, sender)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, sender)
		})
	}
}

func TestNewSender_Defaults(t *testing.T) {
	sender, err := NewSender(Config{Enabled: true, Host: "smtp.example.com", FromAddress: "noreply@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 587, sender.config.Port)
	assert.Equal(t, 10*time.Second, sender.config.DialTimeout)
	assert.Nil(t, sender.auth)
}

func TestSend_DisabledIsNoop(t *testing.T) {
	sender, err := NewSender(Config{})
	require.NoError(t, err)

	assert.NoError(t, sender.Send(context.Background(), mail.Message{To: "user@example.com"}))
}

func TestBuildMessage(t *testing.T) {
	sender, err := NewSender(Config{FromAddress: "Restaurant <noreply@example.com>"})
	require.NoError(t, err)
	sender.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	t.Run("text only", func(t *testing.T) {
		raw := string(sender.buildMessage(mail.Message{
			To:      "user@example.com",
			Subject: "Verify your email",
			Text:    "Your verification code is 123456",
		}, "abc"))

		assert.Contains(t, raw, "From: Restaurant <noreply@example.com>\r\n")
		assert.Contains(t, raw, "To: user@example.com\r\n")
		assert.Contains(t, raw, "Subject: Verify your email\r\n")
		assert.Contains(t, raw, "Date: Fri, 01 Mar 2024 10:00:00 +0000\r\n")
		assert.Contains(t, raw, "Message-ID: <abc@example.com>\r\n")
		assert.Contains(t, raw, "Content-Type: text/plain")
		assert.NotContains(t, raw, "multipart")
	})

	t.Run("with html", func(t *testing.T) {
		raw := string(sender.buildMessage(mail.Message{
			To:   "user@example.com",
			Text: "plain",
			HTML: "<b>rich</b>",
		}, "abc"))

		assert.Contains(t, raw, `multipart/alternative; boundary="restaurant-api-abc"`)
		assert.Contains(t, raw, "--restaurant-api-abc\r\nContent-Type: text/plain")
		assert.Contains(t, raw, "--restaurant-api-abc\r\nContent-Type: text/html")
		assert.Contains(t, raw, "--restaurant-api-abc--")
	})
}

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "noreply@example.com", extractEmail("Restaurant <noreply@example.com>"))
	assert.Equal(t, "noreply@example.com", extractEmail("noreply@example.com"))
	assert.Equal(t, "example.com", domainOf("noreply@example.com"))
	assert.Equal(t, "localhost", domainOf("broken"))
}
