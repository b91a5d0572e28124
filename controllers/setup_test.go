package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"taskhive/config"
	"taskhive/models"
	"taskhive/routes"
	"taskhive/utils"
)

var dbCounter int64

// setupTest wires a fresh in-memory database and a fiber app with the
// full route table. Each test gets its own schema.
func setupTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = config.Config{
		Environment:   "test",
		JWTSecret:     "test-secret",
		RateLimitAuth: 1000,
	}

	name := fmt.Sprintf("file:taskhive_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))

	config.DB = db

	app := fiber.New()
	routes.SetupRoutes(app, db)

	return app, db
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func authToken(t *testing.T, user *models.User) string {
	t.Helper()

	access, _, err := utils.GenerateJWTToken(user)
	require.NoError(t, err)
	return access
}

// doRequest performs an authenticated JSON request against the app and
// decodes the response body into a generic map.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func dataField(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "expected data object in response: %v", body)
	return data
}
