package service

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bookstore-api/internal/domains/access"
	"bookstore-api/internal/domains/user"
	"bookstore-api/internal/domains/user/mocks"
	"bookstore-api/pkg/jwt"
)

func strPtr(s string) *string { return &s }

func newTestService() (*userService, *mocks.Repository, *jwt.Manager) {
	repo := &mocks.Repository{}
	tokens := jwt.NewManager("test-secret", time.Hour)
	svc := NewUserService(repo, tokens).(*userService)
	svc.bcryptCost = bcrypt.MinCost
	return svc, repo, tokens
}

// ========================================
// REGISTER
// ========================================

func TestRegister_Success(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.Username == "testuser1" &&
			u.FirstName == "Test" &&
			u.AuthorPseudonym == nil &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("testpass123")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*user.User).ID = uuid.New()
	}).Return(nil)

	dto, err := svc.Register(context.Background(), user.RegisterRequest{
		Username:        "testuser1",
		Password:        "testpass123",
		FirstName:       "  Test ",
		LastName:        "User",
		AuthorPseudonym: strPtr("   "),
	})
	require.NoError(t, err)
	assert.Equal(t, "testuser1", dto.Username)
	assert.Equal(t, "Test User", dto.DisplayedName)
	assert.NotEqual(t, uuid.Nil, dto.ID)
	repo.AssertExpectations(t)
}

func TestRegister_Invalid(t *testing.T) {
	svc, repo, _ := newTestService()

	tests := []struct {
		name  string
		req   user.RegisterRequest
		field string
	}{
		{"missing username", user.RegisterRequest{Password: "testpass123"}, "username"},
		{"bad username chars", user.RegisterRequest{Username: "has space", Password: "testpass123"}, "username"},
		{"short password", user.RegisterRequest{Username: "testuser1", Password: "short"}, "password"},
		{"blank pseudonym", user.RegisterRequest{Username: "testuser1", Password: "testpass123", AuthorPseudonym: strPtr("")}, "author_pseudonym"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			var verrs validation.Errors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Contains(t, verrs, tt.field)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("Create", mock.Anything, mock.Anything).Return(user.ErrUsernameTaken)

	_, err := svc.Register(context.Background(), user.RegisterRequest{Username: "testuser1", Password: "testpass123"})
	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

// ========================================
// LOGIN
// ========================================

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("testpass123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &user.User{ID: uuid.New(), Username: "testuser1", PasswordHash: string(hash)}

	t.Run("success", func(t *testing.T) {
		svc, repo, tokens := newTestService()
		repo.On("FindByUsername", mock.Anything, "testuser1").Return(stored, nil)

		resp, err := svc.Login(context.Background(), user.LoginRequest{Username: "testuser1", Password: "testpass123"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "testuser1", resp.User.DisplayedName)

		claims, err := tokens.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, stored.ID.String(), claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("FindByUsername", mock.Anything, "testuser1").Return(stored, nil)

		_, err := svc.Login(context.Background(), user.LoginRequest{Username: "testuser1", Password: "wrongpass"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("FindByUsername", mock.Anything, "nobody").Return(nil, user.ErrUserNotFound)

		_, err := svc.Login(context.Background(), user.LoginRequest{Username: "nobody", Password: "testpass123"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

// ========================================
// LOAD ACTOR
// ========================================

func TestLoadActor(t *testing.T) {
	svc, repo, _ := newTestService()
	admin := &user.User{ID: uuid.New(), Username: "adminuser", IsAdmin: true}
	missing := uuid.New()
	broken := uuid.New()

	repo.On("FindFreshByID", mock.Anything, admin.ID).Return(admin, nil)
	repo.On("FindFreshByID", mock.Anything, missing).Return(nil, user.ErrUserNotFound)
	repo.On("FindFreshByID", mock.Anything, broken).Return(nil, errors.New("connection reset"))

	actor, err := svc.LoadActor(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, &access.Actor{UserID: admin.ID, Username: "adminuser", IsAdmin: true}, actor)

	_, err = svc.LoadActor(context.Background(), missing)
	assert.ErrorIs(t, err, access.ErrUnauthenticated)

	_, err = svc.LoadActor(context.Background(), broken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, access.ErrUnauthenticated)
}

func TestLoadActor_SeesDemotionOnNextRequest(t *testing.T) {
	svc, repo, _ := newTestService()
	id := uuid.New()

	repo.On("FindFreshByID", mock.Anything, id).
		Return(&user.User{ID: id, Username: "adminuser", IsAdmin: true}, nil).Once()
	repo.On("FindFreshByID", mock.Anything, id).
		Return(&user.User{ID: id, Username: "adminuser", IsAdmin: false}, nil).Once()

	actor, err := svc.LoadActor(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin)

	actor, err = svc.LoadActor(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, actor.IsAdmin)

	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

// ========================================
// PROFILE
// ========================================

func TestUpdateProfile(t *testing.T) {
	t.Run("set pseudonym", func(t *testing.T) {
		svc, repo, _ := newTestService()
		u := &user.User{ID: uuid.New(), Username: "author_user", FirstName: "Ann", LastName: "Lee"}
		repo.On("FindByID", mock.Anything, u.ID).Return(u, nil)
		repo.On("UpdateProfile", mock.Anything, u).Return(nil)

		dto, err := svc.UpdateProfile(context.Background(), u.ID, user.UpdateProfileRequest{AuthorPseudonym: strPtr("Pen Name")})
		require.NoError(t, err)
		assert.Equal(t, "Pen Name", dto.DisplayedName)
		assert.Equal(t, "Ann", u.FirstName)
	})

	t.Run("clear pseudonym", func(t *testing.T) {
		svc, repo, _ := newTestService()
		u := &user.User{ID: uuid.New(), Username: "author_user", AuthorPseudonym: strPtr("Pen Name")}
		repo.On("FindByID", mock.Anything, u.ID).Return(u, nil)
		repo.On("UpdateProfile", mock.Anything, u).Return(nil)

		dto, err := svc.UpdateProfile(context.Background(), u.ID, user.UpdateProfileRequest{AuthorPseudonym: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, u.AuthorPseudonym)
		assert.Equal(t, "author_user", dto.DisplayedName)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _ := newTestService()
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, user.ErrUserNotFound)

		_, err := svc.UpdateProfile(context.Background(), id, user.UpdateProfileRequest{FirstName: strPtr("X")})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestListUsers_Pagination(t *testing.T) {
	svc, repo, _ := newTestService()
	users := []user.User{{ID: uuid.New(), Username: "a"}, {ID: uuid.New(), Username: "b"}}
	repo.On("List", mock.Anything, 20, 20).Return(users, 22, nil)

	resp, err := svc.ListUsers(context.Background(), user.ListUsersRequest{Page: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, 22, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 20, resp.Limit)
}
