//go:build integration

package integration

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/testutil"
)

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func waitForCode(t *testing.T, email string) string {
	t.Helper()

	msg, err := mailpitClient.WaitForMessage(email, 15*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "Verify your email", msg.Subject)
	assert.Equal(t, "noreply@restaurant.test", msg.From.Address)

	m := codePattern.FindStringSubmatch(msg.Text)
	require.Len(t, m, 2, "no code in %q", msg.Text)
	return m[1]
}

func TestVerifyEmail_EndToEnd(t *testing.T) {
	email := uniqueEmail("verify")
	client := registerAndLogin(t, email, "Client")
	code := waitForCode(t, email)

	const verify = `mutation($input: VerifyEmailInput!) { verifyEmail(input: $input) { isSuccess error } }`

	var wrong testutil.Envelope
	client.MustDo(t, verify, testutil.Input(map[string]interface{}{"code": "not-it"}), "verifyEmail", &wrong)
	assert.Equal(t, "Wrong confirmation code", *wrong.Error)

	var ok testutil.Envelope
	client.MustDo(t, verify, testutil.Input(map[string]interface{}{"code": code}), "verifyEmail", &ok)
	assert.True(t, ok.IsSuccess)

	var self struct {
		IsVerified bool `json:"isVerified"`
	}
	client.MustDo(t, `{ self { isVerified } }`, nil, "self", &self)
	assert.True(t, self.IsVerified)

	var again testutil.Envelope
	client.MustDo(t, `mutation { sendCode { isSuccess error } }`, nil, "sendCode", &again)
	assert.Equal(t, "Email already verified", *again.Error)
}
