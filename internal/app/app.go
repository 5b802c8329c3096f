package app

import (
	"context"
	"fmt"

	"github.com/jamspace/jamspace/internal/config"
	"github.com/jamspace/jamspace/internal/db"
	"github.com/jamspace/jamspace/internal/middleware"
	"github.com/jamspace/jamspace/internal/repository"
	"github.com/jamspace/jamspace/internal/service"
	"github.com/jamspace/jamspace/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Storage         storage.Storage
	AuthService     *service.AuthService
	ProfileService  *service.ProfileService
	DiscoverService *service.DiscoverService
	ProjectService  *service.ProjectService
	FileService     *service.FileService
	EmailService    *service.EmailService
	AuthRateLimiter *middleware.RateLimiter

	stop chan struct{}
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return NewWithDeps(cfg, database, fileStorage), nil
}

// NewWithDeps wires services around an already opened database and object
// store.
func NewWithDeps(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage) *App {
	// Repositories
	kv := repository.NewSQLKVStore(database)
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(kv)
	projectRepository := repository.NewProjectRepository(kv)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	profileService := service.NewProfileService(profileRepository, projectRepository)
	authService := service.NewAuthService(
		userRepository,
		profileService,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.AnonKey,
	)
	discoverService := service.NewDiscoverService(profileRepository, cfg.DiscoverLimit)
	projectService := service.NewProjectService(projectRepository, profileService, fileStorage, cfg.S3SignedURLExpiry)
	fileService := service.NewFileService(projectRepository, fileStorage, cfg.S3SignedURLExpiry, cfg.MaxUploadSize)

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.TrustProxyHeaders)
	stop := make(chan struct{})
	go limiter.Run(stop)

	return &App{
		Cfg:             cfg,
		DB:              database,
		Storage:         fileStorage,
		AuthService:     authService,
		ProfileService:  profileService,
		DiscoverService: discoverService,
		ProjectService:  projectService,
		FileService:     fileService,
		EmailService:    emailService,
		AuthRateLimiter: limiter,
		stop:            stop,
	}
}

func (a *App) Close() error {
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
