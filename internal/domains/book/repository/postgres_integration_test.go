package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"bookstore-api/internal/domains/book/model"
	"bookstore-api/internal/domains/book/repository"
	"bookstore-api/internal/domains/user"
	userRepository "bookstore-api/internal/domains/user/repository"
	infraCache "bookstore-api/internal/infrastructure/cache"
	"bookstore-api/internal/infrastructure/database"
)

// RepositorySuite chạy user + book repository trên Postgres và Redis thật
type RepositorySuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	rdContainer *tcredis.RedisContainer
	pool        *pgxpool.Pool
	cache       *infraCache.RedisCache
	users       user.Repository
	books       repository.RepositoryInterface
}

func (s *RepositorySuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("bookstore_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	s.Require().NoError(err, "start postgres container")

	dsn, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(database.ApplyMigrations(dsn))

	s.pool, err = pgxpool.New(s.ctx, dsn)
	s.Require().NoError(err)

	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").WithStartupTimeout(time.Minute),
		),
	)
	s.Require().NoError(err, "start redis container")

	host, err := s.rdContainer.Host(s.ctx)
	s.Require().NoError(err)
	port, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	s.Require().NoError(err)

	s.cache = infraCache.NewRedisCache(fmt.Sprintf("%s:%s", host, port.Port()), "", 0)
	s.Require().NoError(s.cache.Connect(s.ctx))

	s.users = userRepository.NewPostgresRepository(s.pool, s.cache)
	s.books = repository.NewPostgresRepository(s.pool)
}

func (s *RepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.cache != nil {
		_ = s.cache.Close()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
	if s.rdContainer != nil {
		_ = s.rdContainer.Terminate(s.ctx)
	}
}

func (s *RepositorySuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE users CASCADE`)
	s.Require().NoError(err)
	s.Require().NoError(s.cache.Client.FlushDB(s.ctx).Err())
}

func (s *RepositorySuite) createUser(username string, pseudonym *string) *user.User {
	u := &user.User{
		Username:        username,
		PasswordHash:    "hash",
		FirstName:       "Ann",
		LastName:        "Lee",
		AuthorPseudonym: pseudonym,
	}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *RepositorySuite) createBook(author *user.User, title string) *model.Book {
	b := &model.Book{
		Title:       title,
		Description: "Description",
		AuthorID:    author.ID,
		Price:       decimal.RequireFromString("12.50"),
	}
	s.Require().NoError(s.books.CreateBook(s.ctx, b))
	return b
}

// ========================================
// USERS
// ========================================

func (s *RepositorySuite) TestUserCreate_DuplicateUsername() {
	s.createUser("author_user", nil)

	err := s.users.Create(s.ctx, &user.User{Username: "author_user", PasswordHash: "x"})
	s.ErrorIs(err, user.ErrUsernameTaken)
}

func (s *RepositorySuite) TestUserFindByID_CacheAside() {
	u := s.createUser("author_user", nil)
	key := "user:" + u.ID.String()

	found, err := s.users.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("author_user", found.Username)

	exists, err := s.cache.Client.Exists(s.ctx, key).Result()
	s.Require().NoError(err)
	s.Equal(int64(1), exists)

	pen := "Pen Name"
	found.AuthorPseudonym = &pen
	s.Require().NoError(s.users.UpdateProfile(s.ctx, found))

	exists, err = s.cache.Client.Exists(s.ctx, key).Result()
	s.Require().NoError(err)
	s.Equal(int64(0), exists)

	again, err := s.users.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("Pen Name", again.DisplayedName())
}

func (s *RepositorySuite) TestUserFindByID_NotFound() {
	_, err := s.users.FindByID(s.ctx, uuid.New())
	s.ErrorIs(err, user.ErrUserNotFound)

	_, err = s.users.FindByUsername(s.ctx, "nobody")
	s.ErrorIs(err, user.ErrUserNotFound)
}

func (s *RepositorySuite) TestUserFindFreshByID_BypassesCache() {
	u := s.createUser("admin_user", nil)
	_, err := s.pool.Exec(s.ctx, `UPDATE users SET is_admin = TRUE WHERE id = $1`, u.ID)
	s.Require().NoError(err)

	cached, err := s.users.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.True(cached.IsAdmin)

	_, err = s.pool.Exec(s.ctx, `UPDATE users SET is_admin = FALSE WHERE id = $1`, u.ID)
	s.Require().NoError(err)

	fresh, err := s.users.FindFreshByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.False(fresh.IsAdmin)
	s.False(fresh.ToActor().IsAdmin)

	_, err = s.users.FindFreshByID(s.ctx, uuid.New())
	s.ErrorIs(err, user.ErrUserNotFound)
}

func (s *RepositorySuite) TestUserList() {
	s.createUser("b_user", nil)
	s.createUser("a_user", nil)

	users, total, err := s.users.List(s.ctx, 0, 1)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Require().Len(users, 1)
	s.Equal("a_user", users[0].Username)
}

// ========================================
// BOOKS
// ========================================

func (s *RepositorySuite) TestBookCreateAndGet_JoinsAuthor() {
	pen := "A Pseudonym Author"
	author := s.createUser("pseudonym_author", &pen)
	b := s.createBook(author, "Test Book")
	s.NotEqual(uuid.Nil, b.ID)

	got, err := s.books.GetBookByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(author.ID, got.AuthorID)
	s.Require().NotNil(got.Author)
	s.Equal("A Pseudonym Author", got.LiveDisplayedName())
	s.Equal("12.50", got.Price.StringFixed(2))

	_, err = s.books.GetBookByID(s.ctx, uuid.New())
	s.ErrorIs(err, model.ErrBookNotFound)
}

func (s *RepositorySuite) TestBookLiveNameFollowsProfileUpdate() {
	author := s.createUser("author_user", nil)
	b := s.createBook(author, "Test Book")

	pen := "New Pen Name"
	author.AuthorPseudonym = &pen
	s.Require().NoError(s.users.UpdateProfile(s.ctx, author))

	got, err := s.books.GetBookByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal("New Pen Name", got.LiveDisplayedName())
}

func (s *RepositorySuite) TestBookList_NewestFirst() {
	author := s.createUser("author_user", nil)
	s.createBook(author, "Older")
	time.Sleep(10 * time.Millisecond)
	s.createBook(author, "Newer")

	books, total, err := s.books.ListBooks(s.ctx, 0, 10)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Require().Len(books, 2)
	s.Equal("Newer", books[0].Title)
}

func (s *RepositorySuite) TestBookUpdate_RollbackOnError() {
	author := s.createUser("author_user", nil)
	b := s.createBook(author, "Original")

	_, err := s.books.UpdateBook(s.ctx, b.ID, func(book *model.Book) error {
		book.Title = "Changed"
		return errors.New("denied")
	})
	s.Error(err)

	got, err := s.books.GetBookByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal("Original", got.Title)

	updated, err := s.books.UpdateBook(s.ctx, b.ID, func(book *model.Book) error {
		book.Title = "Changed"
		book.Price = decimal.RequireFromString("9999.99")
		return nil
	})
	s.Require().NoError(err)
	s.Equal("Changed", updated.Title)

	got, err = s.books.GetBookByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal("9999.99", got.Price.StringFixed(2))

	_, err = s.books.UpdateBook(s.ctx, uuid.New(), func(*model.Book) error { return nil })
	s.ErrorIs(err, model.ErrBookNotFound)
}

func (s *RepositorySuite) TestBookDelete() {
	author := s.createUser("author_user", nil)
	b := s.createBook(author, "Doomed")

	err := s.books.DeleteBook(s.ctx, b.ID, func(*model.Book) error { return errors.New("denied") })
	s.Error(err)
	_, err = s.books.GetBookByID(s.ctx, b.ID)
	s.NoError(err)

	s.Require().NoError(s.books.DeleteBook(s.ctx, b.ID, func(*model.Book) error { return nil }))
	_, err = s.books.GetBookByID(s.ctx, b.ID)
	s.ErrorIs(err, model.ErrBookNotFound)
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	suite.Run(t, new(RepositorySuite))
}
