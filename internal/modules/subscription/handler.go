package subscription

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes — списки пользователей видны всем, флаг
// is_subscribed заполняется только для авторизованного зрителя.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:id", h.GetUser)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/subscriptions", h.ListSubscriptions)
	protected.POST("/users/:id/subscribe", h.Subscribe)
	protected.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, limit := pagination(c)

	users, total, err := h.service.Users(c.Request.Context(), viewerID(c), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}
	response.Paginated(c, http.StatusOK, "users", users, total, page, limit)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.service.UserByID(c.Request.Context(), viewerID(c), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get user")
		return
	}
	response.Success(c, http.StatusOK, user)
}

// ListSubscriptions handles GET /users/subscriptions?recipes_limit=N
func (h *Handler) ListSubscriptions(c *gin.Context) {
	page, limit := pagination(c)
	recipesLimit, _ := strconv.Atoi(c.DefaultQuery("recipes_limit", "0"))

	items, total, err := h.service.Subscriptions(c.Request.Context(), viewerID(c), page, limit, recipesLimit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list subscriptions")
		return
	}
	response.Paginated(c, http.StatusOK, "subscriptions", items, total, page, limit)
}

func (h *Handler) Subscribe(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	author, err := h.service.Subscribe(c.Request.Context(), viewerID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, author)
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), viewerID(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrSelfSubscribe):
		response.Error(c, http.StatusBadRequest, "SELF_SUBSCRIBE", "Cannot subscribe to yourself")
	case errors.Is(err, ErrAlreadySubscribed):
		response.Error(c, http.StatusBadRequest, "ALREADY_SUBSCRIBED", "Already subscribed to this user")
	case errors.Is(err, ErrNotSubscribed):
		response.Error(c, http.StatusBadRequest, "NOT_SUBSCRIBED", "Not subscribed to this user")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}

func viewerID(c *gin.Context) int64 {
	if v, exists := c.Get("user_id"); exists {
		return v.(int64)
	}
	return 0
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
