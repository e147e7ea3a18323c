package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/catalogworks/catalog/internal/api/handler"
	"github.com/catalogworks/catalog/internal/api/middleware"
	"github.com/catalogworks/catalog/internal/api/render"
	"github.com/catalogworks/catalog/internal/api/session"
	"github.com/catalogworks/catalog/internal/core/ports"
	"github.com/catalogworks/catalog/internal/core/service"
	mongostore "github.com/catalogworks/catalog/internal/infrastructure/db/mongo"
	redisstore "github.com/catalogworks/catalog/internal/infrastructure/db/redis"
	"github.com/catalogworks/catalog/internal/pkg/config"
	"github.com/catalogworks/catalog/web"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. rdb may be nil; the login throttle is then disabled.
func NewRouter(cfg *config.Config, log zerolog.Logger, db *mongo.Database, rdb *redis.Client, assets ports.AssetStore) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	renderer, err := render.New(web.FS)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	e.Renderer = renderer

	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.Duration, cfg.Session.ActiveDuration)

	// --- Global middleware: session attach and route derivation run before
	// every handler so the render reflects the executing request. ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("catalog"))
	e.Use(middleware.Session(sessions))
	e.Use(middleware.ActiveRoute)

	// --- Dependencies ---
	catalogRepo := mongostore.NewCatalogRepository(db)
	authRepo := mongostore.NewAuthRepository(db)
	var throttle ports.LoginThrottle
	if rdb != nil {
		throttle = redisstore.NewLoginThrottle(rdb)
	}
	catalogService := service.NewCatalogService(catalogRepo, assets, log)
	authService := service.NewAuthService(authRepo, throttle, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)
	authHandler := handler.NewAuthHandler(authService, sessions, log)

	// --- Static assets ---
	e.StaticFS("/public", echo.MustSubFS(web.FS, "static"))

	// --- Public routes ---
	e.GET("/", catalogHandler.Home)
	e.GET("/about", catalogHandler.About)
	e.GET("/shop", catalogHandler.Shop)
	e.GET("/item/:id", catalogHandler.ItemByID)
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/register", authHandler.RegisterForm)
	e.POST("/register", authHandler.Register)
	e.GET("/logout", authHandler.Logout)

	// --- Guarded routes ---
	e.GET("/shop/:id", catalogHandler.ShopItem, middleware.RequireLogin)
	e.GET("/items", catalogHandler.Items, middleware.RequireLogin)
	e.GET("/items/add", catalogHandler.AddItemForm, middleware.RequireLogin)
	e.POST("/items/add", catalogHandler.AddItem, middleware.RequireLogin)
	e.GET("/items/delete/:id", catalogHandler.DeleteItem, middleware.RequireLogin)
	e.GET("/categories", catalogHandler.Categories, middleware.RequireLogin)
	e.GET("/categories/add", catalogHandler.AddCategoryForm, middleware.RequireLogin)
	e.POST("/categories/add", catalogHandler.AddCategory, middleware.RequireLogin)
	e.GET("/categories/delete/:id", catalogHandler.DeleteCategory, middleware.RequireLogin)
	e.GET("/userHistory", authHandler.UserHistory, middleware.RequireLogin)

	// --- Health probes and metrics ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(db, rdb).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
