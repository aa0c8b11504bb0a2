package repository

import (
	"context"

	"github.com/google/uuid"

	"bookstore-api/internal/domains/book/model"
)

// MutateFunc chạy trong transaction với book đã được lock (SELECT ... FOR UPDATE).
// Trả error để rollback.
type MutateFunc func(book *model.Book) error

// RepositoryInterface - Định nghĩa data access methods
type RepositoryInterface interface {
	// CreateBook insert book; author_id lấy từ book.AuthorID trong cùng câu INSERT
	CreateBook(ctx context.Context, book *model.Book) error

	// GetBookByID trả về book kèm author (JOIN users)
	// Returns: model.ErrBookNotFound nếu không tồn tại
	GetBookByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// ListBooks trả về một trang books (mới nhất trước) và tổng số
	ListBooks(ctx context.Context, offset, limit int) ([]model.Book, int, error)

	// UpdateBook lock book, gọi fn để kiểm tra quyền và sửa, rồi ghi lại
	UpdateBook(ctx context.Context, id uuid.UUID, fn MutateFunc) (*model.Book, error)

	// DeleteBook lock book, gọi fn để kiểm tra quyền, rồi xóa
	DeleteBook(ctx context.Context, id uuid.UUID, fn MutateFunc) error
}
