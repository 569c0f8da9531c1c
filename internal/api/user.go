package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

// UserHandler serves user profiles and the subscription endpoints.
type UserHandler struct {
	authService         *service.AuthService
	subscriptionService *service.SubscriptionService
	validator           middleware.TokenValidator
}

func NewUserHandler(authService *service.AuthService, subscriptionService *service.SubscriptionService, validator middleware.TokenValidator) *UserHandler {
	return &UserHandler{
		authService:         authService,
		subscriptionService: subscriptionService,
		validator:           validator,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(h.validator), h.List)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.validator), h.Get)

		authed := users.Group("", middleware.AuthMiddleware(h.validator))
		{
			authed.GET("/me", h.Me)
			authed.GET("/subscriptions", h.Subscriptions)
			authed.POST("/:id/subscribe", h.Subscribe)
			authed.DELETE("/:id/subscribe", h.Unsubscribe)
		}
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	followed := map[uuid.UUID]struct{}{}
	if viewerID := middleware.ViewerID(c); viewerID != nil {
		followed, err = h.subscriptionService.FollowedAuthorIDs(c.Request.Context(), *viewerID)
		if err != nil {
			writeError(c, err)
			return
		}
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		u := &users[i]
		_, u.IsSubscribed = followed[u.ID]
		out = append(out, *toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	if viewerID := middleware.ViewerID(c); viewerID != nil && *viewerID != user.ID {
		subscribed, err := h.subscriptionService.IsSubscribed(c.Request.Context(), *viewerID, user.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		user.IsSubscribed = subscribed
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	authors, err := h.subscriptionService.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, authors)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	authorID, ok := pathID(c)
	if !ok {
		return
	}

	summary, err := h.subscriptionService.Add(c.Request.Context(), userID, authorID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	authorID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Remove(c.Request.Context(), userID, authorID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
