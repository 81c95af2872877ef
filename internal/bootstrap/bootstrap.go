package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/degreeaudit/internal/app/controllers"
	appMigrations "github.com/yigit/degreeaudit/internal/app/migrations"
	appRepos "github.com/yigit/degreeaudit/internal/app/repositories"
	appRoutes "github.com/yigit/degreeaudit/internal/app/routes"
	appServices "github.com/yigit/degreeaudit/internal/app/services"
	"github.com/yigit/degreeaudit/internal/areas"
	"github.com/yigit/degreeaudit/internal/config"
	"github.com/yigit/degreeaudit/internal/db"
	"github.com/yigit/degreeaudit/internal/engine/evaluator"
	appMiddleware "github.com/yigit/degreeaudit/internal/middleware"
	pkgAuth "github.com/yigit/degreeaudit/internal/pkg/auth"
	"github.com/yigit/degreeaudit/internal/pkg/logger"
	"github.com/yigit/degreeaudit/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is not set
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Evaluator       *evaluator.Evaluator
	AreaService     *appServices.AreaService
	AuditService    *appServices.AuditService
	AreaController  *appControllers.AreaController
	AuditController *appControllers.AuditController
	AuthMiddleware  *appMiddleware.AuthMiddleware
	Repos           *appRepos.Repositories
	JWTService      *pkgAuth.JWTService
	Logger          zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
		Output: os.Stderr,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL, applies migrations and imports the example students.
// It returns a nil pool when the database is disabled.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	if !cfg.Database.Enabled {
		lgr.Info().Msg("Database disabled, serving students from files")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Students.Dir != "" {
		files := appRepos.NewStudentFileSource(cfg.Students.Dir, lgr)
		if _, err := seed.ImportStudents(ctx, dbPool, files, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to import example students, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool, cfg.Areas.Dir, cfg.Students.Dir, lgr)
	deps.Evaluator = evaluator.New(nil, lgr)

	builtins, err := areas.Builtin(deps.Evaluator)
	if err != nil {
		return nil, fmt.Errorf("failed to build built-in areas: %w", err)
	}
	deps.AreaService = appServices.NewAreaService(deps.Repos.AreaRepository, builtins, deps.Evaluator, lgr)

	var students appServices.StudentSource = deps.Repos.StudentFiles
	var store appServices.AuditStore
	if deps.Repos.StudentRepository != nil {
		students = deps.Repos.StudentRepository
	}
	if deps.Repos.AuditRepository != nil {
		store = deps.Repos.AuditRepository
	}
	deps.AuditService = appServices.NewAuditService(deps.AreaService, students, store, appServices.AuditConfig{
		Timeout: cfg.AuditTimeout(),
		Persist: cfg.Audit.Persist,
	}, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AreaController = appControllers.NewAreaController(deps.AreaService)
	deps.AuditController = appControllers.NewAuditController(deps.AuditService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	if err := appRoutes.SetupRouter(router,
		deps.AreaController,
		deps.AuditController,
		deps.AuthMiddleware,
	); err != nil {
		return nil, err
	}

	return router, nil
}
