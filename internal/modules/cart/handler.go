package cart

import (
	"errors"
	"net/http"

	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes вешает скачивание списка покупок на защищённую группу.
// Маршрут регистрируется раньше /recipes/:id в cmd/api.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recipes/download_shopping_cart", h.Download)
}

// Download отдаёт агрегированный список покупок вложением.
// По умолчанию — plain text, ?format=pdf включает PDF-вариант.
func (h *Handler) Download(c *gin.Context) {
	userID := c.GetInt64("user_id")

	items, err := h.service.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			response.Error(c, http.StatusBadRequest, "EMPTY_CART", "Shopping cart is empty")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build shopping list")
		return
	}

	if c.Query("format") == "pdf" {
		data, err := RenderPDF(items)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render shopping list")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="shopping_list.pdf"`)
		c.Data(http.StatusOK, "application/pdf", data)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", RenderText(items))
}
