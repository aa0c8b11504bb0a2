package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	user "bookstore-api/internal/domains/user"
	"bookstore-api/pkg/cache"
)

const (
	userCacheTTL       = 15 * time.Minute
	uniqueViolationErr = "23505"
)

// postgresRepository là concrete implementation của user.Repository interface
// Pattern "Hide implementation, expose interface"
type postgresRepository struct {
	pool  *pgxpool.Pool // PostgreSQL connection pool
	cache cache.Cache   // Redis cache layer, có thể nil
}

// NewPostgresRepository tạo repository; cache có thể nil (khi Redis không khả dụng)
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) user.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

const userColumns = `
	id, username, password_hash, first_name, last_name,
	author_pseudonym, is_admin, created_at, updated_at
`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.AuthorPseudonym,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ========================================
// BASIC CRUD OPERATIONS
// ========================================

// Create tạo user mới trong database
func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			username, password_hash, first_name, last_name,
			author_pseudonym, is_admin
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		u.Username,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.AuthorPseudonym,
		u.IsAdmin,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// 23505 = unique_violation (username đã tồn tại)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErr {
			return user.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByID tìm user theo UUID với Redis caching ("Cache-Aside Pattern")
// Cache lỗi được coi như cache miss.
// Lưu ý: PasswordHash có json:"-" nên bản cache không có hash, không dùng cho login.
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	cacheKey := userCacheKey(id)

	// STEP 1: CHECK CACHE FIRST
	if r.cache != nil {
		var cached user.User
		found, err := r.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("user cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	// STEP 2: CACHE MISS - QUERY DATABASE
	u, err := r.FindFreshByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// STEP 3: SET CACHE FOR FUTURE REQUESTS
	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, u, userCacheTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("user cache write failed")
		}
	}

	return u, nil
}

// FindFreshByID luôn đọc từ database, bỏ qua cache.
// Dùng khi cần is_admin đúng tại thời điểm request (load actor).
func (r *postgresRepository) FindFreshByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByUsername tìm user theo username (dùng cho login)
// Không cache vì cần password_hash
func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// List trả về một trang users và tổng số
func (r *postgresRepository) List(ctx context.Context, offset, limit int) ([]user.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY username LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	return users, total, nil
}

// UpdateProfile cập nhật profile và invalidate cache
func (r *postgresRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, author_pseudonym = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, u.ID, u.FirstName, u.LastName, u.AuthorPseudonym).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("update user profile: %w", err)
	}

	// Invalidate cache - lần đọc sau sẽ lấy bản mới từ DB
	if r.cache != nil {
		if err := r.cache.Delete(ctx, userCacheKey(u.ID)); err != nil {
			log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("user cache invalidation failed")
		}
	}

	return nil
}
