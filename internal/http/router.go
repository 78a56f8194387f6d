package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nomzodai/nomzod-api/internal/auth"
	"github.com/nomzodai/nomzod-api/internal/cache"
	"github.com/nomzodai/nomzod-api/internal/config"
	"github.com/nomzodai/nomzod-api/internal/http/handlers"
	"github.com/nomzodai/nomzod-api/internal/http/middlewares"
	"github.com/nomzodai/nomzod-api/internal/observability"
	"github.com/nomzodai/nomzod-api/internal/repo"
	"github.com/nomzodai/nomzod-api/internal/service"
	"github.com/nomzodai/nomzod-api/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const jsonBodyLimit = 1 << 20

// Deps are the collaborators built by main. Cache and Prom may be nil;
// Gatherer defaults to the global prometheus registry.
type Deps struct {
	Store    repo.Store
	Cache    cache.Cache
	Tokens   *auth.Manager
	Files    *storage.Local
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders(cfg.Env))
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// services

	authSvc := service.NewAuthService(deps.Store, deps.Tokens, log)
	userSvc := service.NewUserService(deps.Store, deps.Files, cfg.UserACL, log)
	imageSvc := service.NewImageService(deps.Store, deps.Files, deps.Prom, log)
	typeSvc := service.NewQuestionTypeService(deps.Store, deps.Cache, deps.Prom, log)
	questionSvc := service.NewQuestionService(deps.Store, deps.Cache, deps.Prom, log)

	authMw := middlewares.NewAuthMiddleware(authSvc)
	loginLimiter := middlewares.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	uploadLimiter := middlewares.NewRateLimiter(cfg.UploadRateLimit, time.Minute)

	// health
	checks := map[string]handlers.Check{"db": deps.Store.Ping}
	if deps.Cache != nil {
		checks["cache"] = func(ctx context.Context) error { return deps.Cache.Ping(ctx) }
	}
	h := handlers.NewHealthHandler(checks)

	r.GET("/", handlers.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	if deps.Files != nil {
		r.Static(storage.PublicPrefix, deps.Files.Root())
	}

	// auth and users

	authHandler := handlers.NewAuthHandler(authSvc, log)
	usersHandler := handlers.NewUsersHandler(userSvc, log)
	imagesHandler := handlers.NewImagesHandler(imageSvc, log)

	authGroup := r.Group("/auth")
	authGroup.POST("/register",
		loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
		middlewares.MaxBodyBytes(jsonBodyLimit),
		middlewares.RequireJSON(),
		authHandler.Register)
	authGroup.POST("/jwt/login",
		loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
		middlewares.MaxBodyBytes(jsonBodyLimit),
		middlewares.RequireContentType("application/x-www-form-urlencoded", "multipart/form-data"),
		authHandler.Login)

	protected := authGroup.Group("", authMw.RequireAuth())
	protected.GET("/authenticated-route", authHandler.AuthenticatedRoute)
	protected.GET("/users", authMw.RequireSuperuser(), usersHandler.ListUsers)
	protected.GET("/user/:id", usersHandler.GetUser)
	protected.PUT("/update/:id", middlewares.MaxBodyBytes(jsonBodyLimit), middlewares.RequireJSON(), usersHandler.UpdateUser)
	protected.DELETE("/delete/:id", authMw.RequireSuperuser(), usersHandler.DeleteUser)
	protected.POST("/image/upload",
		uploadLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP),
		middlewares.MaxBodyBytes(cfg.MaxUploadBytes),
		middlewares.RequireContentType("multipart/form-data"),
		imagesHandler.Upload)

	// question bank

	typesHandler := handlers.NewQuestionTypesHandler(typeSvc, log)
	questionsHandler := handlers.NewQuestionsHandler(questionSvc, log)

	q := r.Group("/question", authMw.RequireAuth(), middlewares.MaxBodyBytes(jsonBodyLimit), middlewares.RequireJSON())

	q.POST("/type/", typesHandler.CreateType)
	q.GET("/type/", typesHandler.ListTypes)
	q.GET("/type/:id", typesHandler.GetType)
	q.PUT("/type/:id", typesHandler.UpdateType)
	q.DELETE("/type/:id", typesHandler.DeleteType)

	q.POST("/", questionsHandler.CreateQuestion)
	q.GET("/", questionsHandler.ListQuestions)
	q.GET("/types/:id", questionsHandler.ListQuestionsByType)
	q.GET("/:id", questionsHandler.GetQuestion)
	q.PUT("/:id", questionsHandler.UpdateQuestion)
	q.DELETE("/:id", questionsHandler.DeleteQuestion)

	return r
}
