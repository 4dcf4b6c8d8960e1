package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dinetrack/internal/domain"
	cartsvc "dinetrack/internal/service/cart"
)

type addItemRequest struct {
	ItemID          string          `json:"itemId" binding:"required"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Image           string          `json:"image"`
	SelectedOptions []string        `json:"selectedOptions"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartItemResponse struct {
	ItemID          string   `json:"itemId"`
	Name            string   `json:"name"`
	UnitPrice       string   `json:"unitPrice"`
	Quantity        int      `json:"quantity"`
	Image           string   `json:"image,omitempty"`
	SelectedOptions []string `json:"selectedOptions,omitempty"`
}

type cartResponse struct {
	Items    []cartItemResponse `json:"items"`
	Subtotal string             `json:"subtotal"`
	Tax      string             `json:"tax"`
	Total    string             `json:"total"`
}

// toCartResponse is the display boundary: monetary values are rounded to two
// places here and nowhere earlier.
func toCartResponse(lines []domain.CartLine, totals domain.CartTotals) cartResponse {
	items := make([]cartItemResponse, 0, len(lines))
	for _, line := range lines {
		items = append(items, cartItemResponse{
			ItemID:          line.ItemID,
			Name:            line.Name,
			UnitPrice:       line.UnitPrice.StringFixed(2),
			Quantity:        line.Quantity,
			Image:           line.Image,
			SelectedOptions: line.SelectedOptions,
		})
	}
	return cartResponse{
		Items:    items,
		Subtotal: totals.Subtotal.StringFixed(2),
		Tax:      totals.Tax.StringFixed(2),
		Total:    totals.Total.StringFixed(2),
	}
}

func getCartHandler(cart CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toCartResponse(cart.Snapshot(), cart.Totals()))
	}
}

func addItemHandler(cart CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "itemId required"})
			return
		}
		err := cart.Add(c.Request.Context(), cartsvc.AddInput{
			ItemID:          req.ItemID,
			Name:            req.Name,
			UnitPrice:       req.Price,
			Image:           req.Image,
			SelectedOptions: req.SelectedOptions,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart.Snapshot(), cart.Totals()))
	}
}

func setQuantityHandler(cart CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "quantity required"})
			return
		}
		err := cart.SetQuantity(c.Request.Context(), c.Param("itemID"), req.Quantity)
		if errors.Is(err, domain.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart.Snapshot(), cart.Totals()))
	}
}

func removeItemHandler(cart CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cart.Remove(c.Request.Context(), c.Param("itemID")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart.Snapshot(), cart.Totals()))
	}
}

func incrementHandler(cart CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cart.Increment(c.Request.Context(), c.Param("itemID")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart.Snapshot(), cart.Totals()))
	}
}

func decrementHandler(cart CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cart.Decrement(c.Request.Context(), c.Param("itemID")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart.Snapshot(), cart.Totals()))
	}
}

func clearCartHandler(cart CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cart.Clear(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
