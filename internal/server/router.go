package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"giftfinder/docs"
	"giftfinder/internal/config"
	"giftfinder/internal/domain/auth"
	"giftfinder/internal/domain/catalog"
	"giftfinder/internal/domain/feedback"
	"giftfinder/internal/domain/media"
	"giftfinder/internal/domain/tracking"
	"giftfinder/internal/health"
	"giftfinder/internal/middleware"
	"giftfinder/internal/pkg/jwt"
	"giftfinder/internal/storage"
)

// Deps are the long lived collaborators the router wires into handlers.
// Redis and Publisher are optional.
type Deps struct {
	Config    *config.Config
	Log       zerolog.Logger
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher tracking.Publisher
	Storage   storage.Storage
}

// NewRouter builds the gin engine with every API route mounted under /api.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		d.Log.Error().Err(err).Msg("invalid trusted proxies, forwarded headers ignored")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger(d.Log))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	var cache tracking.Cache = tracking.NopCache{}
	checks := []health.Check{health.DatabaseCheck(d.DB), health.StorageCheck(d.Storage)}
	if d.Redis != nil {
		cache = tracking.NewRedisCache(d.Redis)
		checks = append(checks, health.RedisCheck(d.Redis))
	}

	trackingService := tracking.NewService(tracking.NewRepository(d.DB), cache, d.Publisher, d.Log, tracking.Options{
		DedupeWindow:  cfg.ClickDedupeWindow,
		StatsCacheTTL: cfg.StatsCacheTTL,
	})
	feedbackService := feedback.NewService(feedback.NewRepository(d.DB), d.Log)
	mediaService := media.NewService(media.NewRepository(d.DB), d.Storage, d.Log, cfg.MediaMaxBytes)
	catalogService := catalog.NewService(catalog.NewRepository(d.DB))
	authService := auth.NewService(auth.NewUserRepository(d.DB), jwtService, d.Log)
	healthService := health.NewService(d.DB, cfg.AppVersion, checks...)

	health.RegisterRoutes(r, health.NewHandler(healthService))

	// Multipart bodies are buffered in memory up to the upload limit plus
	// room for the other form fields.
	r.MaxMultipartMemory = cfg.MediaMaxBytes + 1<<20

	if local, ok := d.Storage.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.MediaPublicBaseURL, "/") {
		r.Group(cfg.MediaPublicBaseURL, middleware.StaticMedia()).Static("/", local.BasePath())
	}

	docs.SwaggerInfo.BasePath = "/api"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		auth.RegisterRoutes(api, auth.NewHandler(authService), jwtService)
		catalog.RegisterRoutes(api, catalog.NewHandler(catalogService), jwtService)
		tracking.RegisterRoutes(api, tracking.NewHandler(trackingService))
		feedback.RegisterRoutes(api, feedback.NewHandler(feedbackService), jwtService)
		media.RegisterRoutes(api, media.NewHandler(mediaService), jwtService)
	}

	return r
}
