package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
)

func TestRegisterAndLoginOverHTTP(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username":   "alice",
		"first_name": "Alice",
		"last_name":  "Smith",
		"email":      "alice@example.com",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)

	// The fresh token works against a protected endpoint.
	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeBody(t, w)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, false, me["is_subscribed"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["token"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscribeOverHTTP(t *testing.T) {
	router, db, auth := setupTestRouter(t)
	aliceToken := registerTestUser(t, auth, "alice")
	registerTestUser(t, auth, "bob")

	var bob models.User
	require.NoError(t, db.First(&bob, "username = ?", "bob").Error)

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/"+bob.ID.String()+"/subscribe", aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decodeBody(t, w)
	assert.Equal(t, "bob", view["username"])
	assert.Equal(t, true, view["is_subscribed"])

	// Subscribing twice reports the duplicate.
	w = doJSON(t, router, http.MethodPost, "/api/v1/users/"+bob.ID.String()+"/subscribe", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already subscribed")

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/subscriptions", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeBody(t, w)
	assert.Equal(t, float64(1), page["count"])

	w = doJSON(t, router, http.MethodDelete, "/api/v1/users/"+bob.ID.String()+"/subscribe", aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/subscriptions", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["count"])
}

func TestSubscribeRecipeLimitQueryParam(t *testing.T) {
	router, db, auth := setupTestRouter(t)
	aliceToken := registerTestUser(t, auth, "alice")
	registerTestUser(t, auth, "bob")

	var bob models.User
	require.NoError(t, db.First(&bob, "username = ?", "bob").Error)
	for i := 0; i < 3; i++ {
		recipe := models.Recipe{AuthorID: bob.ID, Name: fmt.Sprintf("Recipe %d", i), Text: "Cook.", CookingTime: 10}
		require.NoError(t, db.Create(&recipe).Error)
	}

	// The short spelling truncates the embedded recipes the same way
	// recipes_limit does; the total count stays unbounded.
	w := doJSON(t, router, http.MethodPost, "/api/v1/users/"+bob.ID.String()+"/subscribe?limit=2", aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decodeBody(t, w)
	assert.Len(t, view["recipes"], 2)
	assert.Equal(t, float64(3), view["recipes_count"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/subscriptions?limit=1", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := decodeBody(t, w)["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Len(t, results[0].(map[string]interface{})["recipes"], 1)
}

func TestSubscribeToSelfOverHTTP(t *testing.T) {
	router, db, auth := setupTestRouter(t)
	token := registerTestUser(t, auth, "alice")

	var alice models.User
	require.NoError(t, db.First(&alice, "username = ?", "alice").Error)

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/"+alice.ID.String()+"/subscribe", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "yourself")
}

func TestGetUserShowsSubscriptionState(t *testing.T) {
	router, db, auth := setupTestRouter(t)
	aliceToken := registerTestUser(t, auth, "alice")
	registerTestUser(t, auth, "bob")

	var bob models.User
	require.NoError(t, db.First(&bob, "username = ?", "bob").Error)

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/"+bob.ID.String(), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["is_subscribed"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/users/"+bob.ID.String()+"/subscribe", aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/"+bob.ID.String(), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_subscribed"])

	// Anonymous viewers always see false.
	w = doJSON(t, router, http.MethodGet, "/api/v1/users/"+bob.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["is_subscribed"])
}
