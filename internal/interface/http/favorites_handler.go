package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/skymind/internal/domain/favorites"
)

// ListFavorites returns saved locations in insertion order.
func (h *Handler) ListFavorites(c *gin.Context) {
	items, err := h.favoritesSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "favorites_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": items})
}

// ToggleFavorite adds the location, or removes it when already saved.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var req favorites.Location
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	res, err := h.favoritesSvc.Toggle(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "favorites_failed"))
		return
	}
	c.JSON(http.StatusOK, res)
}

// RemoveFavorite deletes a saved location by id.
func (h *Handler) RemoveFavorite(c *gin.Context) {
	if err := h.favoritesSvc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, domainError(err, "favorites_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}
