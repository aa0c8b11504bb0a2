package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bookstore-api/internal/domains/access"
	"bookstore-api/internal/domains/user"
)

// Mock user.Repository
type Repository struct {
	mock.Mock
}

var _ user.Repository = (*Repository)(nil)

func (m *Repository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *Repository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *Repository) FindFreshByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *Repository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *Repository) List(ctx context.Context, offset, limit int) ([]user.User, int, error) {
	args := m.Called(ctx, offset, limit)
	users, _ := args.Get(0).([]user.User)
	return users, args.Int(1), args.Error(2)
}

func (m *Repository) UpdateProfile(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// Mock user.Service
type Service struct {
	mock.Mock
}

var _ user.Service = (*Service)(nil)

func (m *Service) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	args := m.Called(ctx, req)
	dto, _ := args.Get(0).(*user.UserDTO)
	return dto, args.Error(1)
}

func (m *Service) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*user.LoginResponse)
	return resp, args.Error(1)
}

func (m *Service) LoadActor(ctx context.Context, userID uuid.UUID) (*access.Actor, error) {
	args := m.Called(ctx, userID)
	actor, _ := args.Get(0).(*access.Actor)
	return actor, args.Error(1)
}

func (m *Service) GetUser(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	args := m.Called(ctx, userID)
	dto, _ := args.Get(0).(*user.UserDTO)
	return dto, args.Error(1)
}

func (m *Service) ListUsers(ctx context.Context, req user.ListUsersRequest) (*user.ListUsersResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*user.ListUsersResponse)
	return resp, args.Error(1)
}

func (m *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest) (*user.UserDTO, error) {
	args := m.Called(ctx, userID, req)
	dto, _ := args.Get(0).(*user.UserDTO)
	return dto, args.Error(1)
}
