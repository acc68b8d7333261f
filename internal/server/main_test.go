package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crewdesk/internal/config"
	"crewdesk/internal/models"
	"crewdesk/internal/reddit"
)

// fakeVerifier implements the account verifier with programmable behavior.
type fakeVerifier struct {
	userExistsFn func(context.Context, string) (bool, error)
	calls        int
}

func (f *fakeVerifier) UserExists(ctx context.Context, username string) (bool, error) {
	f.calls++
	if f.userExistsFn != nil {
		return f.userExistsFn(ctx, username)
	}
	return true, nil
}

// fakeCommunityReader implements the community listing source.
type fakeCommunityReader struct {
	topPostsFn func(context.Context, string, int) ([]reddit.Post, error)
}

func (f *fakeCommunityReader) TopPosts(ctx context.Context, community string, limit int) ([]reddit.Post, error) {
	if f.topPostsFn != nil {
		return f.topPostsFn(ctx, community, limit)
	}
	return nil, nil
}

// setupHandlerTest builds a server over an in-memory database with a fake
// verifier and no redis, plus a fiber app with the real routes mounted.
func setupHandlerTest(t *testing.T, verifier *fakeVerifier) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single pooled connection keeps the in-memory schema and the pragma alive.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(&models.Applicant{}, &models.ContractorRequest{}))

	cfg := &config.Config{Env: "test", Port: "8460"}
	s := NewServerWithDeps(cfg, db, nil, verifier, &fakeCommunityReader{})

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func countApplicants(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Applicant{}).Count(&n).Error)
	return n
}

func countContractorRequests(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.ContractorRequest{}).Count(&n).Error)
	return n
}
