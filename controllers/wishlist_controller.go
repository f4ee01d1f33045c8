package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"veggie-shop/models"
	"veggie-shop/services"
)

type WishlistController struct {
	service *services.WishlistService
}

func NewWishlistController(service *services.WishlistService) *WishlistController {
	return &WishlistController{service: service}
}

// @Summary Get wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Wishlist}
// @Router /wishlist [get]
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	items, err := ctrl.service.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Wishlist retrieved", items)
}

// @Summary Add to wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddToWishlistRequest true "Product"
// @Success 201 {object} models.Response{data=models.Wishlist}
// @Failure 404 {object} models.ErrorResponse
// @Router /wishlist [post]
func (ctrl *WishlistController) AddToWishlist(c *gin.Context) {
	var req models.AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	item, err := ctrl.service.Add(c.Request.Context(), currentUserID(c), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Added to wishlist", item)
}

// @Summary Remove from wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /wishlist/{productId} [delete]
func (ctrl *WishlistController) RemoveFromWishlist(c *gin.Context) {
	if err := ctrl.service.Remove(c.Request.Context(), currentUserID(c), c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Removed from wishlist", nil)
}
