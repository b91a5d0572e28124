package controller_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/models"
)

func TestGetUsers_PublicProjection(t *testing.T) {
	app, db := setupTest(t)
	alice := createUser(t, db, "Alice", "alice@example.com")
	createUser(t, db, "Bob", "bob@example.com")

	resp, body := doRequest(t, app, "GET", "/api/v1/users/", authToken(t, alice), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	users := body["data"].([]interface{})
	require.Len(t, users, 2)

	first := users[0].(map[string]interface{})
	assert.Contains(t, first, "id")
	assert.Contains(t, first, "name")
	assert.Contains(t, first, "email")
	// The projection carries nothing else
	assert.Len(t, first, 3)
}

func TestUpdateUserProfile_Whitelist(t *testing.T) {
	app, db := setupTest(t)
	alice := createUser(t, db, "Alice", "alice@example.com")
	token := authToken(t, alice)

	resp, _ := doRequest(t, app, "PATCH", "/api/v1/users/me", token, map[string]interface{}{
		"name":       "Alice B.",
		"avatar_url": "https://cdn.example.com/a.png",
		"is_active":  false,
		"timezone":   "Mars/Olympus",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, alice.ID).Error)
	assert.Equal(t, "Alice B.", reloaded.Name)
	require.NotNil(t, reloaded.AvatarURL)
	assert.Equal(t, "https://cdn.example.com/a.png", *reloaded.AvatarURL)
	// Fields outside the whitelist are ignored, not applied
	assert.True(t, reloaded.IsActive)
	assert.NotEqual(t, "Mars/Olympus", reloaded.Timezone)
}

func TestDeleteUserAccount_NoCascade(t *testing.T) {
	app, db := setupTest(t)
	alice := createUser(t, db, "Alice", "alice@example.com")
	bob := createUser(t, db, "Bob", "bob@example.com")

	task := models.Task{Title: "Survives", CreatedByID: alice.ID, AssignedToID: &bob.ID, Status: "todo", Priority: "medium"}
	require.NoError(t, db.Create(&task).Error)

	resp, _ := doRequest(t, app, "DELETE", "/api/v1/users/me", authToken(t, alice), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The account is gone; their work is not
	var gone models.User
	assert.Error(t, db.First(&gone, alice.ID).Error)

	var survivor models.Task
	assert.NoError(t, db.First(&survivor, task.ID).Error)
}
