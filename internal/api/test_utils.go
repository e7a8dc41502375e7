package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

// setupTestRouter assembles the full v1 route set on top of an
// in-memory database.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, nil, "test-secret")
	recipes := service.NewRecipeService(db, testhelpers.NewFakeMediaStore())
	users := service.NewUserService(db)
	follows := service.NewFollowService(db)

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewUserHandler(auth, users, follows).RegisterRoutes(v1, auth)
	NewRecipeHandler(recipes).RegisterRoutes(v1, auth)
	NewCatalogHandler(db).RegisterRoutes(v1)
	return router, db, auth
}

// registerTestUser creates an account through the auth service and
// returns a usable bearer token.
func registerTestUser(t *testing.T, auth *service.AuthService, username string) string {
	t.Helper()
	token, err := auth.Register(context.Background(), types.RegisterRequest{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Email:     username + "@example.com",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}
	return token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}
