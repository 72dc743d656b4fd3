package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMeFlow(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "mira", "email": "mira@example.test", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	require.NotEmpty(t, body["token"])

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "MIRA@example.test", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)

	w = doJSON(r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user, _ := decodeBody(t, w)["user"].(map[string]any)
	require.NotNil(t, user)
	assert.Equal(t, "mira", user["name"])
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "first", "email": "taken@example.test", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Same address again. The insert itself must be rejected by the unique
	// index and surface as a conflict, not as an internal error.
	w = doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "second", "email": "taken@example.test", "password": "secret2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already registered", decodeBody(t, w)["message"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "nur", "email": "nur@example.test", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nur@example.test", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
