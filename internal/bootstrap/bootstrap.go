package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	_ "github.com/ecavus/collegia/docs" // generated swagger docs
	appControllers "github.com/ecavus/collegia/internal/app/controllers"
	appMigrations "github.com/ecavus/collegia/internal/app/migrations"
	appRepos "github.com/ecavus/collegia/internal/app/repositories"
	appRoutes "github.com/ecavus/collegia/internal/app/routes"
	appServices "github.com/ecavus/collegia/internal/app/services"
	"github.com/ecavus/collegia/internal/config"
	"github.com/ecavus/collegia/internal/db"
	"github.com/ecavus/collegia/internal/metrics"
	appMiddleware "github.com/ecavus/collegia/internal/middleware"
	pkgAuth "github.com/ecavus/collegia/internal/pkg/auth"
	"github.com/ecavus/collegia/internal/pkg/filestorage"
	"github.com/ecavus/collegia/internal/pkg/helpers"
	"github.com/ecavus/collegia/internal/pkg/logger"
	"github.com/ecavus/collegia/internal/realtime"
	"github.com/ecavus/collegia/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService     *appServices.AuthService
	CollegeService  *appServices.CollegeService
	CourseService   *appServices.CourseService
	ResourceService *appServices.ResourceService
	ForumService    *appServices.ForumService

	AuthController     *appControllers.AuthController
	CollegeController  *appControllers.CollegeController
	CourseController   *appControllers.CourseController
	ResourceController *appControllers.ResourceController
	ForumController    *appControllers.ForumController
	FileController     *appControllers.FileController
	WSHandler          *realtime.Handler

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Hub            *realtime.Hub
	FileStorage    *filestorage.LocalStorage
	URLSigner      *filestorage.URLSigner
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations
// and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes repositories, services, controllers and
// the realtime hub.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	deps.URLSigner = filestorage.NewURLSigner(cfg.Storage.SigningSecret, cfg.SignedURLTTL())

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Hub = realtime.NewHub(cfg.PresenceLease(), cfg.SweepInterval(), lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.CollegeService = appServices.NewCollegeService(deps.Repos.CollegeRepository, deps.Repos.UserRepository, lgr)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, deps.Repos.UserRepository, deps.FileStorage, lgr)
	deps.ResourceService = appServices.NewResourceService(
		deps.Repos.NoteRepository,
		deps.Repos.PaperRepository,
		deps.Repos.CourseRepository,
		deps.Repos.UserRepository,
		deps.FileStorage,
		deps.URLSigner,
		lgr,
	)
	deps.ForumService = appServices.NewForumService(
		deps.Repos.MessageRepository,
		deps.Repos.UserRepository,
		deps.Repos.CollegeRepository,
		deps.Hub,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.CollegeController = appControllers.NewCollegeController(deps.CollegeService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.ResourceController = appControllers.NewResourceController(deps.ResourceService)
	deps.ForumController = appControllers.NewForumController(deps.ForumService)
	deps.FileController = appControllers.NewFileController(deps.FileStorage, deps.URLSigner)
	deps.WSHandler = realtime.NewHandler(deps.Hub, deps.ForumService, deps.ForumService, deps.ForumService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.Default()

	router.Use(appMiddleware.CORS(gin.Mode()))
	router.Use(metrics.GinMiddleware())
	if cfg.RateLimit.RequestsPerSecond > 0 {
		router.Use(appMiddleware.RateLimit(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CollegeController,
		deps.CourseController,
		deps.ResourceController,
		deps.ForumController,
		deps.FileController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	return router
}
