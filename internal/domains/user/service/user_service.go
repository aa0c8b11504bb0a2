package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"bookstore-api/internal/domains/access"
	"bookstore-api/internal/domains/user"
	"bookstore-api/pkg/jwt"
)

// defaultBcryptCost: balance giữa security và performance
const defaultBcryptCost = 12

// userService implement user.Service interface
type userService struct {
	repo       user.Repository // Data access layer
	jwtManager *jwt.Manager
	bcryptCost int
}

// NewUserService tạo service instance
// Inject repository và JWT manager qua constructor (Dependency Injection)
func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		bcryptCost: defaultBcryptCost,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Register tạo user mới
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. HASH PASSWORD
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. CREATE USER ENTITY
	newUser := &user.User{
		Username:        req.Username,
		PasswordHash:    string(passwordHash),
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		AuthorPseudonym: normalizePseudonym(req.AuthorPseudonym),
	}

	// 4. PERSIST TO DATABASE (unique constraint → ErrUsernameTaken)
	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info().Str("user_id", newUser.ID.String()).Str("username", newUser.Username).Msg("user registered")

	dto := newUser.ToDTO()
	return &dto, nil
}

// Login xác thực user và trả về JWT access token
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. FIND USER BY USERNAME
	// Không expose "user not found" - attacker không biết username có tồn tại không
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 3. VERIFY PASSWORD (constant-time comparison)
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	// 4. GENERATE JWT TOKEN
	accessToken, expiresAt, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &user.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        u.ToDTO(),
	}, nil
}

// LoadActor đọc lại user từ database mỗi request (không qua cache)
// để username/is_admin luôn mới nhất
func (s *userService) LoadActor(ctx context.Context, userID uuid.UUID) (*access.Actor, error) {
	u, err := s.repo.FindFreshByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", access.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("load actor: %w", err)
	}
	return u.ToActor(), nil
}

// ========================================
// USER PROFILE
// ========================================

// GetUser trả về public shape của một user
func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// ListUsers trả về danh sách users có phân trang
func (s *userService) ListUsers(ctx context.Context, req user.ListUsersRequest) (*user.ListUsersResponse, error) {
	req.Normalize()

	users, total, err := s.repo.List(ctx, req.Offset(), req.Limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	dtos := make([]user.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, users[i].ToDTO())
	}

	return &user.ListUsersResponse{
		Users: dtos,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

// UpdateProfile cập nhật tên và pseudonym. Pseudonym có thể đổi bất cứ lúc nào;
// ở live mode displayed name của sách đổi theo ngay lần đọc sau.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.AuthorPseudonym != nil {
		u.AuthorPseudonym = normalizePseudonym(req.AuthorPseudonym)
	}

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

// normalizePseudonym: blank → NULL
func normalizePseudonym(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := *p
	return &v
}
