package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"bookstore-api/internal/domains/access"
	"bookstore-api/internal/domains/book/model"
	"bookstore-api/internal/domains/book/repository"
	"bookstore-api/internal/domains/identity"
)

const exportBatchSize = 500

// BookService - Implements ServiceInterface
type BookService struct {
	repo     repository.RepositoryInterface
	authors  AuthorLookup
	policy   *access.Policy
	snapshot bool // true: displayed name được lưu lúc ghi; false: resolve mỗi lần đọc
}

// NewService - Constructor with DI
func NewService(
	repo repository.RepositoryInterface,
	authors AuthorLookup,
	policy *access.Policy,
	snapshot bool,
) ServiceInterface {
	return &BookService{
		repo:     repo,
		authors:  authors,
		policy:   policy,
		snapshot: snapshot,
	}
}

// ============================================
// READ
// ============================================

// ListBooks - danh sách có phân trang, ai cũng đọc được
func (s *BookService) ListBooks(ctx context.Context, actor *access.Actor, req model.ListBooksRequest) ([]model.BookResponse, *model.PaginationMeta, error) {
	if err := s.policy.Authorize(actor, access.ActionRead, nil).Err(); err != nil {
		return nil, nil, err
	}

	req.Normalize()

	books, total, err := s.repo.ListBooks(ctx, req.Offset(), req.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list books: %w", err)
	}

	items := make([]model.BookResponse, 0, len(books))
	for i := range books {
		items = append(items, books[i].ToResponse(s.snapshot))
	}

	return items, &model.PaginationMeta{Page: req.Page, Limit: req.Limit, Total: total}, nil
}

// GetBook - chi tiết một book
func (s *BookService) GetBook(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.BookResponse, error) {
	b, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(actor, access.ActionRead, b.Target()).Err(); err != nil {
		return nil, err
	}

	resp := b.ToResponse(s.snapshot)
	return &resp, nil
}

// ============================================
// CREATE
// ============================================

// CreateBook - author luôn là actor, không lấy từ payload
func (s *BookService) CreateBook(ctx context.Context, actor *access.Actor, req model.CreateBookRequest) (*model.BookResponse, error) {
	// 1. Permission (anonymous → 401, banned → 403)
	if err := s.policy.Authorize(actor, access.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}

	// 2. Validate payload
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 3. Load author row hiện tại
	author, err := s.authors.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}

	b := &model.Book{
		AuthorID: actor.UserID,
		Author:   author,
	}
	req.ApplyTo(b)

	// 4. Snapshot mode: tính displayed name ngay lúc ghi
	if s.snapshot {
		name, err := identity.ResolveForWrite(author.Identity(), req.UsePseudonym)
		if err != nil {
			return nil, err
		}
		b.DisplayedName = name
	}

	// 5. Persist
	if err := s.repo.CreateBook(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	log.Info().
		Str("book_id", b.ID.String()).
		Str("author_id", b.AuthorID.String()).
		Msg("book created")

	resp := b.ToResponse(s.snapshot)
	return &resp, nil
}

// ============================================
// UPDATE
// ============================================

// UpdateBook - PUT, thay toàn bộ field
func (s *BookService) UpdateBook(ctx context.Context, actor *access.Actor, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error) {
	usePseudonym := req.UsePseudonym
	return s.mutate(ctx, actor, id, access.ActionUpdate, req.Validate, func(b *model.Book) {
		req.ApplyTo(b)
	}, &usePseudonym)
}

// PatchBook - PATCH, chỉ field có trong payload.
// Ở snapshot mode, displayed name chỉ tính lại khi có use_pseudonym.
func (s *BookService) PatchBook(ctx context.Context, actor *access.Actor, id uuid.UUID, req model.PatchBookRequest) (*model.BookResponse, error) {
	return s.mutate(ctx, actor, id, access.ActionPartialUpdate, req.Validate, func(b *model.Book) {
		req.ApplyTo(b)
	}, req.UsePseudonym)
}

// mutate: 401 (anonymous) → 404 (fetch) → 403 (policy) → 400 (validate) → ghi
func (s *BookService) mutate(
	ctx context.Context,
	actor *access.Actor,
	id uuid.UUID,
	action access.Action,
	validate func() error,
	apply func(*model.Book),
	usePseudonym *bool,
) (*model.BookResponse, error) {
	if actor == nil {
		return nil, access.ErrUnauthenticated
	}

	updated, err := s.repo.UpdateBook(ctx, id, func(b *model.Book) error {
		if err := s.policy.Authorize(actor, action, b.Target()).Err(); err != nil {
			return err
		}
		if err := validate(); err != nil {
			return err
		}

		apply(b)

		if s.snapshot && usePseudonym != nil && b.Author != nil {
			name, err := identity.ResolveForWrite(b.Author.Identity(), *usePseudonym)
			if err != nil {
				return err
			}
			b.DisplayedName = name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("book_id", updated.ID.String()).
		Str("actor", actor.Username).
		Str("action", string(action)).
		Msg("book updated")

	resp := updated.ToResponse(s.snapshot)
	return &resp, nil
}

// ============================================
// DELETE
// ============================================

func (s *BookService) DeleteBook(ctx context.Context, actor *access.Actor, id uuid.UUID) error {
	if actor == nil {
		return access.ErrUnauthenticated
	}

	err := s.repo.DeleteBook(ctx, id, func(b *model.Book) error {
		return s.policy.Authorize(actor, access.ActionDelete, b.Target()).Err()
	})
	if err != nil {
		return err
	}

	log.Info().Str("book_id", id.String()).Str("actor", actor.Username).Msg("book deleted")
	return nil
}

// ============================================
// EXPORT
// ============================================

// ExportBooksToExcel - tạo file xlsx gồm toàn bộ books kèm displayed name
func (s *BookService) ExportBooksToExcel(ctx context.Context) (*excelize.File, error) {
	var all []model.Book
	for offset := 0; ; offset += exportBatchSize {
		books, _, err := s.repo.ListBooks(ctx, offset, exportBatchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list books: %w", err)
		}
		all = append(all, books...)
		if len(books) < exportBatchSize {
			break
		}
	}

	f, err := s.buildBooksExcelFile(all)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

func (s *BookService) buildBooksExcelFile(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Book list"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	// Row 1: Header
	headers := []string{"ID", "Title", "Displayed Name", "Author Username", "Price", "Cover Image", "Created At"}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheetName, "A1", lastCol, headerStyle)
	}

	// Data rows, bắt đầu từ row 2
	for i := range books {
		b := &books[i]
		resp := b.ToResponse(s.snapshot)

		username := ""
		if b.Author != nil {
			username = b.Author.Username
		}
		cover := ""
		if b.CoverImage != nil {
			cover = *b.CoverImage
		}

		row := []interface{}{
			b.ID.String(),
			b.Title,
			resp.DisplayedName,
			username,
			b.Price.InexactFloat64(),
			cover,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}
