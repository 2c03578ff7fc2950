package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/snowpadi/community-backend/internal/catalog"
	"github.com/snowpadi/community-backend/internal/config"
	"github.com/snowpadi/community-backend/internal/database"
	"github.com/snowpadi/community-backend/internal/handlers"
	"github.com/snowpadi/community-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T, adminIDs ...uuid.UUID) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	registry := catalog.NewRegistry()
	require.NoError(t, registry.AddCategory(&catalog.CategoryEntry{Name: "General", Slug: "general"}))
	require.NoError(t, registry.AddCategory(&catalog.CategoryEntry{Name: "Career & Studies", Slug: "career-studies"}))
	require.NoError(t, registry.AddBadge(&catalog.BadgeEntry{Name: services.BadgeFreshPadi}))
	require.NoError(t, registry.AddBadge(&catalog.BadgeEntry{Name: services.BadgeStoryteller}))
	_, err = database.SeedCatalog(db, registry)
	require.NoError(t, err)

	ids := make([]string, len(adminIDs))
	for i, id := range adminIDs {
		ids[i] = id.String()
	}
	cfg := &config.Config{JWTSecret: testSecret, AdminUserIDs: strings.Join(ids, ",")}

	prefs := services.NewPreferenceService(db)
	profiles := services.NewProfileService(db)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	Setup(app, cfg, profiles,
		handlers.NewHealthHandler(db, registry),
		handlers.NewFeedHandler(services.NewFeedService(db, prefs)),
		handlers.NewContentHandler(services.NewContentService(db)),
		handlers.NewModerationHandler(services.NewModerationService(db)),
		handlers.NewProfileHandler(profiles, services.NewBadgeService(db), prefs),
	)
	return &testServer{app: app, db: db}
}

func signToken(t *testing.T, sub uuid.UUID) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

// do sends a request and decodes the JSON response body into a map.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) categoryID(t *testing.T, slug string) string {
	t.Helper()
	code, body := s.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, code)
	for _, raw := range body["categories"].([]interface{}) {
		c := raw.(map[string]interface{})
		if c["slug"] == slug {
			return c["id"].(string)
		}
	}
	t.Fatalf("category %q not found", slug)
	return ""
}

func (s *testServer) createPost(t *testing.T, token, categoryID, title string) string {
	t.Helper()
	code, body := s.do(t, http.MethodPost, "/api/posts", token, map[string]string{
		"title": title, "content": "some content", "category_id": categoryID,
	})
	require.Equal(t, http.StatusCreated, code, body)
	return body["id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, body := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 2, body["category_count"])
}

func TestFeed_AnonymousAndBadToken(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodGet, "/api/feed", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "latest", body["algorithm"])
	assert.Len(t, body["categories"], 2)
	assert.Empty(t, body["posts"])

	code, _ = s.do(t, http.MethodGet, "/api/feed", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/posts"},
		{http.MethodPost, "/api/reports"},
		{http.MethodGet, "/api/me"},
		{http.MethodPut, "/api/me/preferences"},
		{http.MethodGet, "/api/admin/reports"},
	} {
		code, body := s.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, tc.path)
		assert.Equal(t, true, body["error"])
	}
}

func TestPostLifecycle(t *testing.T) {
	s := newTestServer(t)
	author := uuid.New()
	reader := uuid.New()
	authorToken := signToken(t, author)
	readerToken := signToken(t, reader)
	general := s.categoryID(t, "general")

	postID := s.createPost(t, authorToken, general, "Feeling stuck")

	code, body := s.do(t, http.MethodPost, "/api/posts/"+postID+"/comments", readerToken, map[string]string{"content": "You got this"})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = s.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Feeling stuck", body["title"])
	assert.EqualValues(t, 1, body["comment_count"])

	code, body = s.do(t, http.MethodGet, "/api/posts/"+postID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["comments"], 1)

	code, body = s.do(t, http.MethodGet, "/api/me", authorToken, nil)
	require.Equal(t, http.StatusOK, code)
	profile := body["profile"].(map[string]interface{})
	assert.EqualValues(t, 5, profile["reputation"])
	assert.True(t, strings.HasPrefix(profile["username"].(string), "padi-"))
	assert.Len(t, body["badges"], 2)
	assert.Equal(t, false, body["is_admin"])

	code, _ = s.do(t, http.MethodDelete, "/api/posts/"+postID, readerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodDelete, "/api/posts/"+postID, authorToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreatePost_ValidationAndBadIDs(t *testing.T) {
	s := newTestServer(t)
	token := signToken(t, uuid.New())

	code, body := s.do(t, http.MethodPost, "/api/posts", token, map[string]string{
		"title": "  ", "content": "x", "category_id": s.categoryID(t, "general"),
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["message"], "title")

	code, _ = s.do(t, http.MethodGet, "/api/posts/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/api/categories/unknown/posts", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPreferencesShapeTheFeed(t *testing.T) {
	s := newTestServer(t)
	user := uuid.New()
	token := signToken(t, user)
	general := s.categoryID(t, "general")
	career := s.categoryID(t, "career-studies")

	s.createPost(t, token, general, "visible")
	s.createPost(t, token, career, "hidden")

	code, body := s.do(t, http.MethodPut, "/api/me/preferences", token, map[string]interface{}{
		"feed_algorithm":    "popular",
		"hidden_categories": []string{career},
	})
	require.Equal(t, http.StatusOK, code, body)

	code, body = s.do(t, http.MethodGet, "/api/me/preferences", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "popular", body["feed_algorithm"])

	code, body = s.do(t, http.MethodGet, "/api/feed", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "popular", body["algorithm"])
	posts := body["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "visible", posts[0].(map[string]interface{})["title"])
	assert.Len(t, body["categories"], 1)

	code, _ = s.do(t, http.MethodPut, "/api/me/preferences", token, map[string]interface{}{
		"feed_algorithm": "trending",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestModerationFlow(t *testing.T) {
	mod := uuid.New()
	s := newTestServer(t, mod)
	modToken := signToken(t, mod)
	author := uuid.New()
	authorToken := signToken(t, author)

	postID := s.createPost(t, authorToken, s.categoryID(t, "general"), "topic")
	code, body := s.do(t, http.MethodPost, "/api/posts/"+postID+"/comments", authorToken, map[string]string{"content": "mean words"})
	require.Equal(t, http.StatusCreated, code)
	commentID := body["id"].(string)

	code, body = s.do(t, http.MethodPost, "/api/reports", modToken, map[string]string{
		"item_type": "comment", "item_id": commentID, "reason": "harassment",
	})
	require.Equal(t, http.StatusCreated, code, body)
	reportID := body["id"].(string)

	code, _ = s.do(t, http.MethodGet, "/api/admin/reports", authorToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(t, http.MethodGet, "/api/admin/reports?status=pending", modToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["total"])
	reports := body["reports"].([]interface{})
	require.Len(t, reports, 1)
	assert.NotEmpty(t, reports[0].(map[string]interface{})["reporter_username"])

	for query, want := range map[string]int{
		"limit=0":           20,
		"limit=-5":          20,
		"limit=500":         100,
		"limit=7&offset=-3": 7,
	} {
		code, body = s.do(t, http.MethodGet, "/api/admin/reports?"+query, modToken, nil)
		require.Equal(t, http.StatusOK, code, query)
		assert.EqualValues(t, want, body["limit"], query)
		assert.EqualValues(t, 0, body["offset"], query)
	}

	code, body = s.do(t, http.MethodPost, fmt.Sprintf("/api/admin/reports/%s/delete-content", reportID), modToken, map[string]string{
		"item_type": "comment", "item_id": commentID,
	})
	require.Equal(t, http.StatusOK, code, body)

	code, body = s.do(t, http.MethodGet, "/api/posts/"+postID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["comments"])

	code, _ = s.do(t, http.MethodPost, "/api/admin/reports/"+reportID+"/resolve", modToken, nil)
	assert.Equal(t, http.StatusOK, code, "resolving twice is a no-op")

	code, _ = s.do(t, http.MethodPost, "/api/admin/reports/"+uuid.NewString()+"/resolve", modToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = s.do(t, http.MethodPut, "/api/admin/users/"+author.String()+"/ban", modToken, map[string]bool{"banned": true})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["is_banned"])

	code, body = s.do(t, http.MethodPost, "/api/posts", authorToken, map[string]string{
		"title": "again", "content": "x", "category_id": s.categoryID(t, "general"),
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Account is banned", body["message"])

	code, body = s.do(t, http.MethodGet, "/api/admin/users", modToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["users"], 2)
}
