package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/opencity/tender-marketplace/docs"
	"github.com/opencity/tender-marketplace/internal/api/handler"
	"github.com/opencity/tender-marketplace/internal/api/middleware"
	"github.com/opencity/tender-marketplace/internal/core/domain"
	"github.com/opencity/tender-marketplace/internal/core/service"
	"github.com/opencity/tender-marketplace/internal/infrastructure/config"
	mongodb "github.com/opencity/tender-marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/opencity/tender-marketplace/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tender"))

	// --- Dependencies ---
	authRepo := mongodb.NewAuthRepository(db)
	tenderRepo := mongodb.NewTenderRepository(db)
	bidRepo := mongodb.NewBidRepository(db)
	docStore, err := mongodb.NewDocumentStore(db)
	if err != nil {
		return nil, err
	}
	refreshStore := redisdb.NewRefreshTokenStore(rdb)

	authService := service.NewAuthService(authRepo, refreshStore, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	tenderService := service.NewTenderService(tenderRepo, log)
	bidService := service.NewBidService(bidRepo, tenderRepo, docStore, log, cfg.EnforceOpenTender)

	authHandler := handler.NewAuthHandler(authService)
	tenderHandler := handler.NewTenderHandler(tenderService)
	bidHandler := handler.NewBidHandler(bidService)

	authMW := middleware.Auth(cfg.JWTSecret)
	cityOnly := middleware.RBAC(domain.RoleCity)
	companyOnly := middleware.RBAC(domain.RoleCompany)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)

	// --- Tenders: reads public, writes City only ---
	v1 := e.Group("/v1")
	v1.GET("/tenders", tenderHandler.List)
	v1.GET("/tenders/:id", tenderHandler.Get)
	v1.POST("/tenders", tenderHandler.Create, authMW, cityOnly)
	v1.PUT("/tenders/:id", tenderHandler.Update, authMW, cityOnly)
	v1.DELETE("/tenders/:id", tenderHandler.Delete, authMW, cityOnly)

	// --- Bids: reads public, writes Company only, award City only ---
	v1.GET("/bids", bidHandler.List)
	v1.GET("/bids/my", bidHandler.ListMine, authMW, companyOnly)
	v1.GET("/bids/:id", bidHandler.Get)
	v1.GET("/bids/:id/document", bidHandler.Document)
	v1.POST("/bids", bidHandler.Create, authMW, companyOnly)
	v1.PUT("/bids/:id", bidHandler.Update, authMW, companyOnly)
	v1.DELETE("/bids/:id", bidHandler.Delete, authMW, companyOnly)
	v1.POST("/bids/:id/select-winner", bidHandler.SelectWinner, authMW, cityOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
