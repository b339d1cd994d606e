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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edulab/lms-backend/docs" // Import generated swagger docs
	appAuth "github.com/edulab/lms-backend/internal/app/auth"
	appControllers "github.com/edulab/lms-backend/internal/app/controllers"
	appMigrations "github.com/edulab/lms-backend/internal/app/migrations"
	appRepos "github.com/edulab/lms-backend/internal/app/repositories"
	appRoutes "github.com/edulab/lms-backend/internal/app/routes"
	appServices "github.com/edulab/lms-backend/internal/app/services"
	"github.com/edulab/lms-backend/internal/config"
	"github.com/edulab/lms-backend/internal/db"
	appMiddleware "github.com/edulab/lms-backend/internal/middleware"
	pkgAuth "github.com/edulab/lms-backend/internal/pkg/auth"
	"github.com/edulab/lms-backend/internal/pkg/certrender"
	"github.com/edulab/lms-backend/internal/pkg/filestorage"
	"github.com/edulab/lms-backend/internal/pkg/helpers"
	"github.com/edulab/lms-backend/internal/pkg/logger"
	"github.com/edulab/lms-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           *appServices.AuthService
	CourseService         *appServices.CourseService
	CertificateService    *appServices.CertificateService
	AuthController        *appControllers.AuthController
	CourseController      *appControllers.CourseController
	CertificateController *appControllers.CertificateController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	AuthzService          *appAuth.AuthorizationService
	Renderer              certrender.Renderer
	FileStorage           *filestorage.LocalStorage
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// buildRenderer selects the render backend configured under certificates.backend.
func buildRenderer(cfg *config.Config, lgr zerolog.Logger) (certrender.Renderer, error) {
	timeout := helpers.ParseDuration(cfg.Certificates.RenderTimeout, 90*time.Second)

	switch cfg.Certificates.Backend {
	case "delegated":
		lgr.Info().Str("baseURL", cfg.Certificates.RendererBaseURL).Msg("Using delegated certificate renderer")
		return certrender.NewDelegatedRenderer(cfg.Certificates.RendererBaseURL, cfg.Certificates.RenderToken, timeout), nil
	case "html":
		lgr.Info().Str("converterURL", cfg.Certificates.HTMLConverterURL).Msg("Using HTML certificate renderer")
		return certrender.NewHTMLRenderer(cfg.Certificates.HTMLConverterURL, timeout)
	case "vector":
		lgr.Info().Str("fontDir", cfg.Certificates.FontDir).Msg("Using vector certificate renderer")
		return certrender.NewVectorRenderer(cfg.Certificates.FontDir), nil
	default:
		return nil, fmt.Errorf("unknown certificate render backend: %s", cfg.Certificates.Backend)
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Renderer, err = buildRenderer(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize certificate renderer")
		return nil, err
	}

	deps.AuthzService = appAuth.NewAuthorizationService(
		deps.Repos.UserRepository,
		deps.Repos.CourseRepository,
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)

	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.UserRepository,
		deps.AuthzService,
		lgr,
	)

	deps.CertificateService = appServices.NewCertificateService(
		deps.Repos.CertificateRepository,
		deps.Repos.CourseRepository,
		deps.AuthzService,
		deps.Renderer,
		deps.FileStorage,
		appServices.CertificateServiceOptions{
			PublicBaseURL: cfg.Certificates.PublicBaseURL,
			RenderTimeout: helpers.ParseDuration(cfg.Certificates.RenderTimeout, 90*time.Second),
			IssueWorkers:  cfg.Certificates.IssueWorkers,
		},
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, lgr)
	deps.CertificateController = appControllers.NewCertificateController(deps.CertificateService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CourseController,
		deps.CertificateController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
