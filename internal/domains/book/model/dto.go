package model

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NUMERIC(6,2): tối đa 4 chữ số phần nguyên, 2 chữ số thập phân
var maxPrice = decimal.NewFromInt(10000)

// notBlank: ít nhất một ký tự không phải khoảng trắng
var notBlank = regexp.MustCompile(`\S`)

// ========================================
// REQUEST DTOs
// ========================================

// CreateBookRequest - POST /books
// Author luôn là user hiện tại; field "author" trong payload bị bỏ qua.
type CreateBookRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CoverImage  *string          `json:"cover_image"`
	// UsePseudonym chỉ có tác dụng ở snapshot mode
	UsePseudonym bool `json:"use_pseudonym"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 255),
			validation.Match(notBlank).Error("title cannot be blank"),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
			validation.Match(notBlank).Error("description cannot be blank"),
		),
		validation.Field(&r.Price, validation.Required.Error("price is required"), validation.By(validatePrice)),
		validation.Field(&r.CoverImage, validation.Length(0, 255)),
	)
}

// UpdateBookRequest - PUT /books/:id (full update, cùng rule với create)
type UpdateBookRequest CreateBookRequest

func (r UpdateBookRequest) Validate() error {
	return CreateBookRequest(r).Validate()
}

// PatchBookRequest - PATCH /books/:id; nil = giữ nguyên.
// CoverImage = "" sẽ xóa cover image.
type PatchBookRequest struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	CoverImage   *string          `json:"cover_image"`
	UsePseudonym *bool            `json:"use_pseudonym"`
}

func (r PatchBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("title cannot be blank"),
			validation.Length(1, 255),
			validation.Match(notBlank).Error("title cannot be blank"),
		),
		validation.Field(&r.Description,
			validation.NilOrNotEmpty.Error("description cannot be blank"),
			validation.Match(notBlank).Error("description cannot be blank"),
		),
		validation.Field(&r.Price, validation.By(validatePrice)),
		validation.Field(&r.CoverImage, validation.Length(0, 255)),
	)
}

// ApplyTo ghi các field có mặt trong patch lên book
func (r PatchBookRequest) ApplyTo(b *Book) {
	if r.Title != nil {
		b.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		b.Description = *r.Description
	}
	if r.Price != nil {
		b.Price = *r.Price
	}
	if r.CoverImage != nil {
		b.CoverImage = normalizeCover(r.CoverImage)
	}
}

// ApplyTo gán toàn bộ field có thể sửa của book
func (r CreateBookRequest) ApplyTo(b *Book) {
	b.Title = strings.TrimSpace(r.Title)
	b.Description = r.Description
	if r.Price != nil {
		b.Price = *r.Price
	}
	b.CoverImage = normalizeCover(r.CoverImage)
}

func (r UpdateBookRequest) ApplyTo(b *Book) {
	CreateBookRequest(r).ApplyTo(b)
}

func normalizeCover(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// validatePrice: không âm, tối đa 2 chữ số thập phân, < 10000
func validatePrice(value interface{}) error {
	p, ok := value.(*decimal.Decimal)
	if !ok || p == nil {
		return nil
	}
	if p.IsNegative() {
		return errors.New("price must not be negative")
	}
	if !p.Equal(p.Round(2)) {
		return errors.New("price must have no more than 2 decimal places")
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return errors.New("price must have no more than 4 digits before the decimal point")
	}
	return nil
}

// ListBooksRequest - pagination only
type ListBooksRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize áp dụng default page=1, limit=20 (max 100)
func (r *ListBooksRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

func (r ListBooksRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// ========================================
// RESPONSE DTOs
// ========================================

// BookResponse - read shape của book
type BookResponse struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	DisplayedName       string    `json:"displayed_name"`
	AuthorDisplayedName string    `json:"author_displayed_name"`
	CoverImage          *string   `json:"cover_image"`
	Price               string    `json:"price"`
}

// PaginationMeta - thông tin phân trang
type PaginationMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}
