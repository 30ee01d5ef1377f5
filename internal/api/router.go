package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/coursehub/course-management/docs"
	"github.com/coursehub/course-management/internal/api/handler"
	"github.com/coursehub/course-management/internal/api/middleware"
	"github.com/coursehub/course-management/internal/core/service"
	"github.com/coursehub/course-management/internal/infrastructure/config"
	mongodb "github.com/coursehub/course-management/internal/infrastructure/db/mongo"
	redisdb "github.com/coursehub/course-management/internal/infrastructure/db/redis"
	"github.com/coursehub/course-management/internal/infrastructure/http/handlers"
	"github.com/coursehub/course-management/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and returns it
// together with the roster dispatcher, which the caller must Start.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("courses"))

	// --- Dependencies ---
	authRepo := mongodb.NewAuthRepository(db)
	courseRepo := mongodb.NewCourseRepository(db)
	courseCache := redisdb.NewCourseCache(rdb, log)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(authRepo, tokenService)
	courseService := service.NewCourseService(courseRepo, courseCache, log)
	rosterService := service.NewRosterService(log)
	dispatcher := queue.NewDispatcher(cfg.RosterWorkers, rosterService, log)
	enrollmentService := service.NewEnrollmentService(courseRepo, courseCache, dispatcher, log)

	authHandler := handler.NewAuthHandler(authService)
	courseHandler := handler.NewCourseHandler(courseService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)

	authn := middleware.Auth(tokenService)
	adminOnly := middleware.RequireAdmin()

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/profile", authHandler.Profile, authn)

	// --- Course routes ---
	courses := e.Group("/courses", authn)
	courses.GET("", courseHandler.List)
	courses.POST("", courseHandler.Create, adminOnly)
	courses.PUT("/:id", courseHandler.Update, adminOnly)
	courses.DELETE("/:id", courseHandler.Delete, adminOnly)
	courses.POST("/:id/enroll", enrollmentHandler.Enroll)
	courses.DELETE("/:id/leave", enrollmentHandler.Leave)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, dispatcher
}
