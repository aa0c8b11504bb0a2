package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookstore-api/internal/domains/access"
	"bookstore-api/internal/domains/identity"
	"bookstore-api/internal/domains/user"
)

// Book represents the main book entity
// Match với migration 000002_create_books_table.up.sql
type Book struct {
	// Identity
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`

	// Relationships
	AuthorID uuid.UUID `json:"author_id" db:"author_id"`
	// Author được load qua JOIN users, dùng cho displayed name ở live mode
	Author *user.User `json:"-" db:"-"`

	// Pricing - NUMERIC(6,2)
	Price decimal.Decimal `json:"price" db:"price"`

	// Media
	CoverImage *string `json:"cover_image" db:"cover_image"`

	// Snapshot của displayed name (chỉ dùng ở snapshot mode)
	DisplayedName string `json:"displayed_name" db:"displayed_name"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Target trả về phần book mà access policy cần
func (b *Book) Target() *access.Target {
	return &access.Target{AuthorID: b.AuthorID}
}

// LiveDisplayedName resolve từ author row hiện tại
func (b *Book) LiveDisplayedName() string {
	if b.Author == nil {
		return ""
	}
	return identity.ResolveDisplayedName(b.Author.Identity())
}

// ToResponse build read shape; snapshot=true dùng giá trị đã lưu
func (b *Book) ToResponse(snapshot bool) BookResponse {
	name := b.LiveDisplayedName()
	if snapshot {
		name = b.DisplayedName
	}

	return BookResponse{
		ID:                  b.ID,
		Title:               b.Title,
		Description:         b.Description,
		DisplayedName:       name,
		AuthorDisplayedName: name,
		CoverImage:          b.CoverImage,
		Price:               b.Price.StringFixed(2),
	}
}
