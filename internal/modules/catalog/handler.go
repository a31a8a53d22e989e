package catalog

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

// RegisterRoutes — справочники публичные и read-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.GetTags)
	rg.GET("/tags/:id", h.GetTag)
	rg.GET("/ingredients", h.GetIngredients)
	rg.GET("/ingredients/:id", h.GetIngredient)
}

func (h *Handler) GetTags(c *gin.Context) {
	tags, err := h.service.Tags(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tags")
		return
	}
	response.Success(c, http.StatusOK, tags)
}

func (h *Handler) GetTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tag, err := h.service.TagByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tag not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get tag")
		return
	}
	response.Success(c, http.StatusOK, tag)
}

// GetIngredients handles GET /ingredients?name= — поиск по названию.
func (h *Handler) GetIngredients(c *gin.Context) {
	items, err := h.service.Ingredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list ingredients")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ing, err := h.service.IngredientByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrIngredientNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Ingredient not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get ingredient")
		return
	}
	response.Success(c, http.StatusOK, ing)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}
