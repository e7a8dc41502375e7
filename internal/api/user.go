package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type UserHandler struct {
	auth    *service.AuthService
	users   *service.UserService
	follows *service.FollowService
}

func NewUserHandler(auth *service.AuthService, users *service.UserService, follows *service.FollowService) *UserHandler {
	return &UserHandler{auth: auth, users: users, follows: follows}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.AuthMiddleware(validator), h.Logout)
	}

	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(validator), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(validator), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(validator), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(validator), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(validator), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(validator), h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *UserHandler) Logout(c *gin.Context) {
	token := c.GetString("token")
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	view, err := h.users.Get(c.Request.Context(), userID, &userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	views, count, err := h.users.List(c.Request.Context(), viewerID(c), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "results": views})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userPathID(c)
	if !ok {
		return
	}
	view, err := h.users.Get(c.Request.Context(), id, viewerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	authorID, ok := userPathID(c)
	if !ok {
		return
	}
	view, err := h.follows.Subscribe(c.Request.Context(), userID, authorID, recipesLimitQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	authorID, ok := userPathID(c)
	if !ok {
		return
	}
	if err := h.follows.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	views, err := h.follows.Subscriptions(c.Request.Context(), userID, recipesLimitQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "results": views})
}

// recipesLimitQuery reads the per-author recipe truncation parameter.
// Both spellings are accepted; recipes_limit wins when both are sent.
func recipesLimitQuery(c *gin.Context) int {
	if v := intQuery(c, "recipes_limit", 0); v > 0 {
		return v
	}
	return intQuery(c, "limit", 0)
}

func userPathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}
