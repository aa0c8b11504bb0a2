package user

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// usernamePattern: letters, digits and @/./+/-/_
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ========================================
// AUTH DTOs
// ========================================

// RegisterRequest - tạo user mới (author)
type RegisterRequest struct {
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	AuthorPseudonym *string `json:"author_pseudonym"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, 150),
			validation.Match(usernamePattern).Error("username may contain only letters, digits and @/./+/-/_"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be 8-128 characters"),
		),
		validation.Field(&r.FirstName, validation.Length(0, 150)),
		validation.Field(&r.LastName, validation.Length(0, 150)),
		validation.Field(&r.AuthorPseudonym, validation.NilOrNotEmpty.Error("author pseudonym cannot be blank"), validation.Length(0, 100)),
	)
}

// LoginRequest - username + password
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse - JWT access token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// ========================================
// PROFILE DTOs
// ========================================

// UpdateProfileRequest - partial update, nil = giữ nguyên.
// AuthorPseudonym = "" sẽ xóa pseudonym (NULL).
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	AuthorPseudonym *string `json:"author_pseudonym"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(0, 150)),
		validation.Field(&r.LastName, validation.Length(0, 150)),
		validation.Field(&r.AuthorPseudonym, validation.Length(0, 100)),
	)
}

// ========================================
// RESPONSE DTOs
// ========================================

// UserDTO - public user shape
type UserDTO struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	DisplayedName string    `json:"displayed_name"`
}

// ListUsersRequest - pagination
type ListUsersRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize áp dụng default page=1, limit=20 (max 100)
func (r *ListUsersRequest) Normalize() {
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

// Offset trả về vị trí bắt đầu cho SQL OFFSET
func (r ListUsersRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// ListUsersResponse - danh sách users kèm tổng số
type ListUsersResponse struct {
	Users []UserDTO `json:"users"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}
