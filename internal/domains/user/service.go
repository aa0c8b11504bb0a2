package user

import (
	"context"

	"github.com/google/uuid"

	"bookstore-api/internal/domains/access"
)

// Service định nghĩa business logic layer contract
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// LoadActor đọc user hiện tại cho mỗi request đã xác thực.
	// Returns access.ErrUnauthenticated nếu user không còn tồn tại.
	LoadActor(ctx context.Context, userID uuid.UUID) (*access.Actor, error)

	// User Profile
	GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	ListUsers(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
}
