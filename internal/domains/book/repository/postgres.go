package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-api/internal/domains/book/model"
	"bookstore-api/internal/domains/user"
	"bookstore-api/pkg/database"
)

// postgresRepository - Raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// bookSelect lấy book kèm author để resolve displayed name trong một query
const bookSelect = `
	SELECT
		b.id, b.title, b.description, b.author_id, b.price,
		b.cover_image, b.displayed_name, b.created_at, b.updated_at,
		u.id, u.username, u.first_name, u.last_name, u.author_pseudonym, u.is_admin
	FROM books b
	JOIN users u ON u.id = b.author_id
`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	var a user.User
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Description,
		&b.AuthorID,
		&b.Price,
		&b.CoverImage,
		&b.DisplayedName,
		&b.CreatedAt,
		&b.UpdatedAt,
		&a.ID,
		&a.Username,
		&a.FirstName,
		&a.LastName,
		&a.AuthorPseudonym,
		&a.IsAdmin,
	)
	if err != nil {
		return nil, err
	}
	b.Author = &a
	return &b, nil
}

// ============================================
// CREATE
// ============================================

// CreateBook - author_id được ghi cùng câu INSERT, không có bước gán sau
func (r *postgresRepository) CreateBook(ctx context.Context, b *model.Book) error {
	query := `
		INSERT INTO books (title, description, author_id, price, cover_image, displayed_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		b.Title,
		b.Description,
		b.AuthorID,
		b.Price,
		b.CoverImage,
		b.DisplayedName,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	return nil
}

// ============================================
// READ
// ============================================

func (r *postgresRepository) GetBookByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	b, err := scanBook(r.pool.QueryRow(ctx, bookSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("get book by id: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) ListBooks(ctx context.Context, offset, limit int) ([]model.Book, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	rows, err := r.pool.Query(ctx, bookSelect+` ORDER BY b.created_at DESC, b.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return books, total, nil
}

// ============================================
// UPDATE / DELETE
// ============================================

// lockBook đọc book và khóa row của books tới hết transaction
func lockBook(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Book, error) {
	b, err := scanBook(tx.QueryRow(ctx, bookSelect+` WHERE b.id = $1 FOR UPDATE OF b`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("lock book: %w", err)
	}
	return b, nil
}

// UpdateBook: fetch (404) → fn (authorize + apply) → UPDATE, trong một transaction
func (r *postgresRepository) UpdateBook(ctx context.Context, id uuid.UUID, fn MutateFunc) (*model.Book, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		b, err := lockBook(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		if err := fn(b); err != nil {
			return nil, err
		}

		query := `
			UPDATE books
			SET title = $2, description = $3, price = $4, cover_image = $5,
			    displayed_name = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at
		`
		err = tx.QueryRow(ctx, query,
			b.ID,
			b.Title,
			b.Description,
			b.Price,
			b.CoverImage,
			b.DisplayedName,
		).Scan(&b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("update book: %w", err)
		}

		return b, nil
	})
}

// DeleteBook: fetch (404) → fn (authorize) → DELETE, trong một transaction
func (r *postgresRepository) DeleteBook(ctx context.Context, id uuid.UUID, fn MutateFunc) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		b, err := lockBook(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := fn(b); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, b.ID); err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		return nil
	})
}
