package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"bookstore-api/internal/domains/access"
	"bookstore-api/internal/domains/book/model"
	"bookstore-api/internal/domains/user"
)

// AuthorLookup đọc author (user) theo id; user.Repository thỏa interface này
type AuthorLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// ServiceInterface - Định nghĩa business logic methods.
// actor = nil là anonymous.
type ServiceInterface interface {
	ListBooks(ctx context.Context, actor *access.Actor, req model.ListBooksRequest) ([]model.BookResponse, *model.PaginationMeta, error)
	GetBook(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.BookResponse, error)
	CreateBook(ctx context.Context, actor *access.Actor, req model.CreateBookRequest) (*model.BookResponse, error)
	UpdateBook(ctx context.Context, actor *access.Actor, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error)
	PatchBook(ctx context.Context, actor *access.Actor, id uuid.UUID, req model.PatchBookRequest) (*model.BookResponse, error)
	DeleteBook(ctx context.Context, actor *access.Actor, id uuid.UUID) error
	ExportBooksToExcel(ctx context.Context) (*excelize.File, error)
}
