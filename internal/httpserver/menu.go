package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// menuAuth resolves the credential forwarded to the catalog service. The
// upstream contract expects the hotel id in the bearer slot; an explicit
// Authorization header from the caller takes precedence and is passed
// through opaquely.
func menuAuth(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token
	}
	return c.Param("hotelID")
}

func categoriesHandler(browser CatalogBrowser) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := browser.Categories(c.Request.Context(), menuAuth(c), c.Param("hotelID"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func foodsHandler(browser CatalogBrowser) gin.HandlerFunc {
	return func(c *gin.Context) {
		foods, err := browser.Foods(c.Request.Context(), menuAuth(c), c.Param("categoryID"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, foods)
	}
}

func foodHandler(browser CatalogBrowser) gin.HandlerFunc {
	return func(c *gin.Context) {
		food, err := browser.Food(c.Request.Context(), menuAuth(c), c.Param("foodID"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, food)
	}
}
