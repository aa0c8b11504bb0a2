package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"bookstore-api/internal/config"
	infraCache "bookstore-api/internal/infrastructure/cache"
	"bookstore-api/internal/infrastructure/database"
	"bookstore-api/pkg/cache"
	"bookstore-api/pkg/jwt"

	"bookstore-api/internal/domains/access"

	// User domain imports
	"bookstore-api/internal/domains/user"
	userHandler "bookstore-api/internal/domains/user/handler"
	userRepo "bookstore-api/internal/domains/user/repository"
	userService "bookstore-api/internal/domains/user/service"

	// Book domain imports
	bookHandler "bookstore-api/internal/domains/book/handler"
	bookRepo "bookstore-api/internal/domains/book/repository"
	bookService "bookstore-api/internal/domains/book/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Struct này là "root" của dependency graph
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config     *config.Config       // Application config
	DB         *database.PostgresDB // Database connection pool
	Cache      cache.Cache          // Redis cache (nil nếu Redis không khả dụng)
	redis      *infraCache.RedisCache
	JWTManager *jwt.Manager

	// ========================================
	// ACCESS CONTROL
	// ========================================

	BannedRegistry *access.BannedRegistry
	Policy         *access.Policy

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	UserRepo user.Repository
	BookRepo bookRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	UserService user.Service
	BookService bookService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	UserHandler *userHandler.UserHandler
	BookHandler *bookHandler.Handler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Config (không phụ thuộc gì)
// 2. Infrastructure (DB, migrations, Cache)
// 3. Access control (banned registry, policy)
// 4. Repositories
// 5. Services
// 6. Handlers
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("Initializing DI Container...")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if cfg.Database.AutoMigrate {
		if err := database.ApplyMigrations(dbConfig.DSN()); err != nil {
			c.Cleanup()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	// ========================================
	// STEP 2: INITIALIZE CACHE
	// ========================================
	// Redis failure không critical - log warning và chạy không cache
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), running without cache")
		_ = redisCache.Close()
	} else {
		c.redis = redisCache
		c.Cache = redisCache
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// ========================================
	// STEP 3: ACCESS CONTROL
	// ========================================
	c.BannedRegistry = access.NewBannedRegistry()
	if err := c.ReloadBannedUsers(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.Policy = access.NewPolicy(c.BannedRegistry)

	// ========================================
	// STEP 4-6: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().
		Str("display_name_mode", string(cfg.Books.DisplayNameMode)).
		Int("banned_users", c.BannedRegistry.Len()).
		Msg("DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool, c.Cache)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.BookService = bookService.NewService(
		c.BookRepo,
		c.UserRepo, // author lookup (cached)
		c.Policy,
		c.Config.Books.DisplayNameMode == config.DisplayNameSnapshot,
	)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
}

// ========================================
// RUNTIME OPERATIONS
// ========================================

// ReloadBannedUsers đọc lại BANNED_USERNAMES + BANNED_USERS_FILE và thay snapshot
// của registry. Gọi lúc startup và khi nhận SIGHUP.
func (c *Container) ReloadBannedUsers() error {
	usernames := append([]string{}, c.Config.Access.BannedUsernames...)

	if path := c.Config.Access.BannedUsersFile; path != "" {
		fromFile, err := access.ReadBannedFile(path)
		if err != nil {
			return fmt.Errorf("failed to load banned users: %w", err)
		}
		usernames = append(usernames, fromFile...)
	}

	c.BannedRegistry.Load(usernames)
	log.Info().Int("count", c.BannedRegistry.Len()).Msg("Banned users loaded")
	return nil
}

// HealthCheck kiểm tra DB (bắt buộc) và cache (tùy chọn)
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"database": "up", "cache": "disabled"}

	if err := c.DB.HealthCheck(ctx); err != nil {
		status["database"] = "down"
	}
	if c.Cache != nil {
		status["cache"] = "up"
		if err := c.Cache.Ping(ctx); err != nil {
			status["cache"] = "down"
		}
	}
	return status
}

// ========================================
// CLEANUP
// ========================================

// Cleanup đóng tất cả connections
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	if c.DB != nil {
		c.DB.Close()
		log.Info().Msg("Database connections closed")
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		} else {
			log.Info().Msg("Redis connections closed")
		}
	}
}
