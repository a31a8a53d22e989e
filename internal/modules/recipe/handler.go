package recipe

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/modules/relation"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes — чтение доступно всем; группа идёт с
// OptionalAuth, чтобы у аутентифицированных считались флаги.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/recipes", h.List)
	rg.GET("/recipes/:id", h.Get)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/recipes", h.Create)
	rg.PATCH("/recipes/:id", h.Update)
	rg.DELETE("/recipes/:id", h.Delete)

	rg.POST("/recipes/:id/favorite", h.AddFavorite)
	rg.DELETE("/recipes/:id/favorite", h.RemoveFavorite)
	rg.POST("/recipes/:id/shopping_cart", h.AddToCart)
	rg.DELETE("/recipes/:id/shopping_cart", h.RemoveFromCart)
}

// List handles GET /recipes with filters and pagination.
func (h *Handler) List(c *gin.Context) {
	viewerID := c.GetInt64("user_id")

	f := ListFilters{
		TagSlugs: c.QueryArray("tags"),
	}

	if author := c.Query("author"); author != "" {
		if v, err := strconv.ParseInt(author, 10, 64); err == nil && v > 0 {
			f.AuthorID = v
		}
	}
	// для анонимов эти фильтры игнорируются, а не падают
	f.IsFavorited = boolQuery(c, "is_favorited")
	f.IsInShoppingCart = boolQuery(c, "is_in_shopping_cart")

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}

	views, total, err := h.service.List(c.Request.Context(), viewerID, f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list recipes")
		return
	}

	response.Paginated(c, http.StatusOK, "recipes", toRecipeListResponse(views), total, f.Page, f.Limit)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	view, err := h.service.Get(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toRecipeResponse(*view))
}

func (h *Handler) Create(c *gin.Context) {
	var req WriteRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe payload", err.Error())
		return
	}

	view, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toRecipeResponse(*view))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req WriteRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe payload", err.Error())
		return
	}

	view, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), isAdmin(c), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toRecipeResponse(*view))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.GetInt64("user_id"), isAdmin(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddFavorite(c *gin.Context)      { h.toggle(c, relation.KindFavorite, true) }
func (h *Handler) RemoveFavorite(c *gin.Context)   { h.toggle(c, relation.KindFavorite, false) }
func (h *Handler) AddToCart(c *gin.Context)        { h.toggle(c, relation.KindCart, true) }
func (h *Handler) RemoveFromCart(c *gin.Context)   { h.toggle(c, relation.KindCart, false) }

func (h *Handler) toggle(c *gin.Context, kind relation.Kind, add bool) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	r, err := h.service.Toggle(c.Request.Context(), kind, c.GetInt64("user_id"), id, add)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if add {
		response.Success(c, http.StatusCreated, ToBriefResponse(r))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrDuplicateIngredient),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidCookingTime),
		errors.Is(err, ErrNoIngredients),
		errors.Is(err, ErrNoTags),
		errors.Is(err, ErrIngredientNotFound),
		errors.Is(err, ErrTagNotFound),
		errors.Is(err, ErrInvalidImage):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, relation.ErrAlreadyExists),
		errors.Is(err, relation.ErrNotFound):
		response.Error(c, http.StatusBadRequest, "CONFLICT", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recipe ID")
		return 0, false
	}
	return id, true
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == "admin"
}

func boolQuery(c *gin.Context, key string) bool {
	v := c.Query(key)
	return v == "1" || v == "true"
}
