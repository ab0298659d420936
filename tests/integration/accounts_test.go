//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/auth"
	"github.com/tablebell/restaurant-api/internal/testutil"
)

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	email := uniqueEmail("dup")
	vars := testutil.Input(map[string]interface{}{"email": email, "password": "p", "role": "Client"})

	var first, second testutil.Envelope
	testClient.MustDo(t, createAccountMutation, vars, "createAccount", &first)
	testClient.MustDo(t, createAccountMutation, vars, "createAccount", &second)

	assert.True(t, first.IsSuccess)
	assert.False(t, second.IsSuccess)
	require.NotNil(t, second.Error)
	assert.Equal(t, "This email is already taken", *second.Error)

	var stored string
	err := testDB.QueryRow(context.Background(), `SELECT password FROM users WHERE email = $1`, email).Scan(&stored)
	require.NoError(t, err)
	assert.NotEqual(t, "p", stored)
}

func TestLogin_WrongCredentials(t *testing.T) {
	email := uniqueEmail("login")
	registerAndLogin(t, email, "Client")

	var unknown, wrong loginResult
	testClient.MustDo(t, loginMutation, testutil.Input(map[string]interface{}{
		"email": uniqueEmail("nobody"), "password": defaultPassword,
	}), "login", &unknown)
	testClient.MustDo(t, loginMutation, testutil.Input(map[string]interface{}{
		"email": email, "password": "not-the-password",
	}), "login", &wrong)

	require.NotNil(t, unknown.Error)
	assert.Equal(t, "Email or password are wrong", *unknown.Error)
	assert.Equal(t, unknown.Envelope, wrong.Envelope)
	assert.Nil(t, wrong.Token)
}

func TestLogin_RateLimitedPerEmail(t *testing.T) {
	email := uniqueEmail("limited")
	registerAndLogin(t, email, "Client")

	vars := testutil.Input(map[string]interface{}{"email": email, "password": "wrong"})
	for i := 0; i < loginAttempts; i++ {
		var res loginResult
		testClient.MustDo(t, loginMutation, vars, "login", &res)
		assert.Equal(t, "Email or password are wrong", *res.Error)
	}

	var blocked loginResult
	testClient.MustDo(t, loginMutation, testutil.Input(map[string]interface{}{
		"email": email, "password": defaultPassword,
	}), "login", &blocked)
	assert.False(t, blocked.IsSuccess)
	assert.Equal(t, "Too many login attempts, try again later", *blocked.Error)
}

func TestLogin_RateLimitCounterExpires(t *testing.T) {
	email := uniqueEmail("window")
	registerAndLogin(t, email, "Client")

	var res loginResult
	testClient.MustDo(t, loginMutation, testutil.Input(map[string]interface{}{
		"email": email, "password": "wrong",
	}), "login", &res)
	require.False(t, res.IsSuccess)

	rdb := goredis.NewClient(&goredis.Options{Addr: redisAddr})
	defer rdb.Close()

	ttl, err := rdb.TTL(context.Background(), "login:"+email).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestGate_ClientCannotCreateRestaurant(t *testing.T) {
	client := registerAndLogin(t, uniqueEmail("client"), "Client")

	resp, err := client.Do(createRestaurant, testutil.Input(map[string]interface{}{
		"name": "forbidden-place", "backgroundImage": "bg.png", "address": "nowhere", "categoryName": "Pizza",
	}))
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Forbidden resource", resp.Errors[0].Message)

	var count int
	err = testDB.QueryRow(context.Background(), `SELECT COUNT(*) FROM restaurants WHERE name = 'forbidden-place'`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRotatedSecret_IsAnonymous(t *testing.T) {
	registerAndLogin(t, uniqueEmail("rotated"), "Owner")

	stale, err := auth.NewTokenCodec("an-old-secret", 0).Sign(1)
	require.NoError(t, err)
	client := testClient.WithToken(stale)

	var page testutil.Envelope
	client.MustDo(t, `{ restaurants(input: {}) { isSuccess error } }`, nil, "restaurants", &page)
	assert.True(t, page.IsSuccess)

	resp, err := client.Do(`{ self { id } }`, nil)
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Forbidden resource", resp.Errors[0].Message)
}

func TestOperationalEndpoints(t *testing.T) {
	for _, path := range []string{"/healthz", "/readyz", "/version"} {
		resp, err := http.Get(testServer.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
