package httpserver

import (
	"context"
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dinetrack/internal/client/catalog"
	"dinetrack/internal/domain"
	cartsvc "dinetrack/internal/service/cart"
	"dinetrack/internal/store"
)

type CartManager interface {
	Add(ctx context.Context, in cartsvc.AddInput) error
	Remove(ctx context.Context, itemID string) error
	SetQuantity(ctx context.Context, itemID string, quantity int) error
	Increment(ctx context.Context, itemID string) error
	Decrement(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
	Snapshot() []domain.CartLine
	Totals() domain.CartTotals
}

type OrderSubmitter interface {
	Submit(ctx context.Context, orderTable, hotelID string) ([]domain.OrderRecord, error)
}

type OrderTracker interface {
	Elapsed(ctx context.Context) (int64, bool, error)
	History(ctx context.Context) ([]domain.OrderRecord, error)
}

type IdentityEnsurer interface {
	Ensure(ctx context.Context) (string, error)
}

type CatalogBrowser interface {
	Categories(ctx context.Context, auth, hotelID string) ([]catalog.Category, error)
	Foods(ctx context.Context, auth, categoryID string) ([]catalog.Food, error)
	Food(ctx context.Context, auth, foodID string) (*catalog.FoodDetail, error)
}

// Deps bundles the services the router exposes.
type Deps struct {
	Cart     CartManager
	Orders   OrderSubmitter
	Track    OrderTracker
	Identity IdentityEnsurer
	Catalog  CatalogBrowser
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, st store.Store, deps Deps, allowedOrigins string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if allowedOrigins == "" || allowedOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(allowedOrigins, ",")
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(st))

	router.GET("/device", deviceHandler(deps.Identity))

	cart := router.Group("/cart")
	cart.GET("", getCartHandler(deps.Cart))
	cart.DELETE("", clearCartHandler(deps.Cart))
	cart.POST("/items", addItemHandler(deps.Cart))
	cart.PUT("/items/:itemID", setQuantityHandler(deps.Cart))
	cart.DELETE("/items/:itemID", removeItemHandler(deps.Cart))
	cart.POST("/items/:itemID/increment", incrementHandler(deps.Cart))
	cart.POST("/items/:itemID/decrement", decrementHandler(deps.Cart))

	orders := router.Group("/orders")
	orders.POST("", submitHandler(deps.Orders))
	orders.GET("", historyHandler(deps.Track))
	orders.GET("/elapsed", elapsedHandler(deps.Track))

	menu := router.Group("/menu")
	menu.GET("/:hotelID/categories", categoriesHandler(deps.Catalog))
	menu.GET("/:hotelID/categories/:categoryID/foods", foodsHandler(deps.Catalog))
	menu.GET("/:hotelID/foods/:foodID", foodHandler(deps.Catalog))

	return router
}
