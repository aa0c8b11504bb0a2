package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bookstore-api/internal/domains/book/model"
	"bookstore-api/internal/domains/book/repository"
	"bookstore-api/internal/domains/user"
)

// Mock book RepositoryInterface.
// UpdateBook/DeleteBook trả về book đã cấu hình rồi chạy fn trên nó, giống transaction thật.
type BookRepository struct {
	mock.Mock
}

var _ repository.RepositoryInterface = (*BookRepository)(nil)

func (m *BookRepository) CreateBook(ctx context.Context, book *model.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *BookRepository) GetBookByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *BookRepository) ListBooks(ctx context.Context, offset, limit int) ([]model.Book, int, error) {
	args := m.Called(ctx, offset, limit)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Int(1), args.Error(2)
}

func (m *BookRepository) UpdateBook(ctx context.Context, id uuid.UUID, fn repository.MutateFunc) (*model.Book, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	b, _ := args.Get(0).(*model.Book)
	if err := fn(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (m *BookRepository) DeleteBook(ctx context.Context, id uuid.UUID, fn repository.MutateFunc) error {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return err
	}
	b, _ := args.Get(0).(*model.Book)
	return fn(b)
}

// Mock AuthorLookup (user.Repository.FindByID)
type AuthorLookup struct {
	mock.Mock
}

func (m *AuthorLookup) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}
