package controller_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setupTest(t)

	resp, body := doRequest(t, app, "POST", "/auth/register", "", map[string]interface{}{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])

	registered := body["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", registered["email"])
	// The hash never leaves the server
	_, leaked := registered["password_hash"]
	assert.False(t, leaked)

	// Duplicate email is a conflict
	resp, _ = doRequest(t, app, "POST", "/auth/register", "", map[string]interface{}{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login with the right password
	resp, body = doRequest(t, app, "POST", "/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["access_token"].(string)

	// And with the wrong one
	resp, _ = doRequest(t, app, "POST", "/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The fresh token works against a protected route
	resp, body = doRequest(t, app, "GET", "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@example.com", dataField(t, body)["email"])
}

func TestRegister_RejectsMalformedEmail(t *testing.T) {
	app, _ := setupTest(t)

	resp, _ := doRequest(t, app, "POST", "/auth/register", "", map[string]interface{}{
		"name":     "Bob",
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChangePassword_InvalidatesOldTokens(t *testing.T) {
	app, db := setupTest(t)
	alice := createUser(t, db, "Alice", "alice@example.com")
	oldToken := authToken(t, alice)

	resp, _ := doRequest(t, app, "POST", "/auth/change-password", oldToken, map[string]interface{}{
		"current_password": "password123",
		"new_password":     "password456",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The token carries the pre-bump version and is now rejected
	resp, _ = doRequest(t, app, "GET", "/auth/me", oldToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The new password logs in
	resp, _ = doRequest(t, app, "POST", "/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password456",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	app, _ := setupTest(t)

	resp, _ := doRequest(t, app, "GET", "/api/v1/tasks/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/api/v1/tasks/", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
