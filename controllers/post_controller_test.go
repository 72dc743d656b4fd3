package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/polashmiya/polash-dairy-api/config"
	"github.com/polashmiya/polash-dairy-api/models"
	"github.com/polashmiya/polash-dairy-api/routes"
	"github.com/polashmiya/polash-dairy-api/utils"
)

func init() {
	cfg := config.AppConfig{
		AppPort:        "0",
		JWTSecret:      "test-secret",
		GinMode:        "test",
		AllowedOrigins: []string{"*"},
		RedisHost:      "127.0.0.1",
		RedisPort:      6379,
		LogLevel:       "error",
	}
	config.SetForTesting(cfg)
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
}

// fakeObjectStore stands in for MinIO in handler tests.
type fakeObjectStore struct {
	err      error
	lastKey  string
	lastSize int64
}

func (f *fakeObjectStore) Upload(_ context.Context, key string, r io.Reader, size int64, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.lastKey = key
	f.lastSize = size
	return "http://objects.test/blog-images/" + key, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *fakeObjectStore) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}))
	objects := &fakeObjectStore{}
	return routes.SetupRouter(db, objects), db, objects
}

func newTestUser(t *testing.T, db *gorm.DB, name, role string) (models.User, string) {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        name + "@example.test",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID, user.Name, user.Role, time.Hour)
	require.NoError(t, err)
	return user, token
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreatePostRequiresAuth(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/posts", "", gin.H{
		"title": "t", "content": "c", "category": "cat",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndFetchPost(t *testing.T) {
	r, db, _ := newTestRouter(t)
	user, token := newTestUser(t, db, "u1", models.RoleUser)

	w := doJSON(r, http.MethodPost, "/api/posts", token, gin.H{
		"title": "Hello", "content": "World", "category": "general",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody(t, w)["post"].(map[string]any)
	assert.Equal(t, "Hello", created["title"])
	author := created["author"].(map[string]any)
	assert.Equal(t, float64(user.ID), author["id"])
	assert.Equal(t, user.Email, author["email"])

	id := fmt.Sprintf("%v", int(created["id"].(float64)))
	w = doJSON(r, http.MethodGet, "/api/posts/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)["post"].(map[string]any)
	assert.Equal(t, "Hello", got["title"])
	assert.Equal(t, []any{}, got["comments"])

	w = doJSON(r, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]any)
	assert.Len(t, posts, 1)
}

func TestCreatePostValidation(t *testing.T) {
	r, db, _ := newTestRouter(t)
	_, token := newTestUser(t, db, "u1", models.RoleUser)

	w := doJSON(r, http.MethodPost, "/api/posts", token, gin.H{
		"title": "t", "content": "c",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "category is required")
}

func TestGetPostNotFound(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for _, id := range []string{"999", "not-an-id"} {
		w := doJSON(r, http.MethodGet, "/api/posts/"+id, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "No posts found of this id", decodeBody(t, w)["message"])
	}
}

func TestListPostsSearch(t *testing.T) {
	r, db, _ := newTestRouter(t)
	_, token := newTestUser(t, db, "u1", models.RoleUser)

	for _, p := range []gin.H{
		{"title": "Go tips", "content": "x", "category": "tech"},
		{"title": "Cooking", "content": "y", "category": "food"},
	} {
		w := doJSON(r, http.MethodPost, "/api/posts", token, p)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(r, http.MethodGet, "/api/posts?search=go", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, "Go tips", posts[0].(map[string]any)["title"])
}

func TestUpdatePostAuthorization(t *testing.T) {
	r, db, _ := newTestRouter(t)
	_, ownerToken := newTestUser(t, db, "owner", models.RoleUser)
	_, strangerToken := newTestUser(t, db, "stranger", models.RoleUser)
	_, adminToken := newTestUser(t, db, "root", models.RoleAdmin)

	w := doJSON(r, http.MethodPost, "/api/posts", ownerToken, gin.H{
		"title": "mine", "content": "c", "category": "cat",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := fmt.Sprintf("%v", int(decodeBody(t, w)["post"].(map[string]any)["id"].(float64)))

	w = doJSON(r, http.MethodPut, "/api/posts/"+id, strangerToken, gin.H{"title": "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/api/posts/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mine", decodeBody(t, w)["post"].(map[string]any)["title"], "forbidden update changed nothing")

	w = doJSON(r, http.MethodPatch, "/api/posts/"+id, ownerToken, gin.H{"title": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Post updated successfully", body["message"])
	assert.Equal(t, "renamed", body["post"].(map[string]any)["title"])
	assert.Equal(t, "c", body["post"].(map[string]any)["content"], "partial update keeps content")

	w = doJSON(r, http.MethodPut, "/api/posts/"+id, adminToken, gin.H{"category": "moderated"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeletePost(t *testing.T) {
	r, db, _ := newTestRouter(t)
	_, token := newTestUser(t, db, "u1", models.RoleUser)

	w := doJSON(r, http.MethodPost, "/api/posts", token, gin.H{
		"title": "t", "content": "c", "category": "cat",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := fmt.Sprintf("%v", int(decodeBody(t, w)["post"].(map[string]any)["id"].(float64)))

	w = doJSON(r, http.MethodDelete, "/api/posts/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post deleted successfully", decodeBody(t, w)["message"])

	w = doJSON(r, http.MethodDelete, "/api/posts/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "delete is not idempotent")

	w = doJSON(r, http.MethodGet, "/api/posts/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentFlow(t *testing.T) {
	r, db, _ := newTestRouter(t)
	_, u1Token := newTestUser(t, db, "u1", models.RoleUser)
	u2, u2Token := newTestUser(t, db, "u2", models.RoleUser)
	_, adminToken := newTestUser(t, db, "root", models.RoleAdmin)

	w := doJSON(r, http.MethodPost, "/api/posts", u1Token, gin.H{
		"title": "A", "content": "B", "category": "C",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := fmt.Sprintf("%v", int(decodeBody(t, w)["post"].(map[string]any)["id"].(float64)))

	// Legacy alias "comment" still accepted.
	w = doJSON(r, http.MethodPost, "/api/posts/"+postID+"/comments", u2Token, gin.H{"comment": "hi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Comment added successfully", body["message"])
	comment := body["comment"].(map[string]any)
	assert.Equal(t, "hi", comment["text"])
	assert.Equal(t, u2.Name, comment["authorName"])
	assert.Equal(t, float64(u2.ID), comment["user"].(map[string]any)["id"])
	commentID := fmt.Sprintf("%v", int(comment["id"].(float64)))

	w = doJSON(r, http.MethodGet, "/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decodeBody(t, w)["post"].(map[string]any)["comments"].([]any)
	require.Len(t, comments, 1)

	// Post author does not own the comment.
	w = doJSON(r, http.MethodDelete, "/api/posts/"+postID+"/comments/"+commentID, u1Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/posts/"+postID+"/comments/"+commentID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments = decodeBody(t, w)["post"].(map[string]any)["comments"].([]any)
	assert.Empty(t, comments)
}

func TestAddCommentValidation(t *testing.T) {
	r, db, _ := newTestRouter(t)
	_, token := newTestUser(t, db, "u1", models.RoleUser)

	w := doJSON(r, http.MethodPost, "/api/posts", token, gin.H{
		"title": "t", "content": "c", "category": "cat",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := fmt.Sprintf("%v", int(decodeBody(t, w)["post"].(map[string]any)["id"].(float64)))

	w = doJSON(r, http.MethodPost, "/api/posts/"+postID+"/comments", token, gin.H{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/posts/999/comments", token, gin.H{"text": "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	r, db, objects := newTestRouter(t)
	_, token := newTestUser(t, db, "u1", models.RoleUser)

	body, contentType := multipartImage(t, "image", "pic.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody(t, w)
	assert.Equal(t, "Image uploaded successfully", resp["message"])
	assert.Contains(t, resp["url"], objects.lastKey)
	assert.True(t, strings.HasSuffix(objects.lastKey, ".png"))
}

func TestUploadImageNoFile(t *testing.T) {
	r, db, _ := newTestRouter(t)
	_, token := newTestUser(t, db, "u1", models.RoleUser)

	body, contentType := multipartImage(t, "wrongfield", "pic.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", decodeBody(t, w)["message"])
}

func TestUploadImageStorageFailure(t *testing.T) {
	r, db, objects := newTestRouter(t)
	_, token := newTestUser(t, db, "u1", models.RoleUser)
	objects.err = errors.New("bucket unavailable")

	body, contentType := multipartImage(t, "image", "pic.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Upload failed", decodeBody(t, w)["message"])
}
