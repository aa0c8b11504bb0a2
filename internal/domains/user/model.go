package user

import (
	"time"

	"github.com/google/uuid"

	"bookstore-api/internal/domains/access"
	"bookstore-api/internal/domains/identity"
)

// User là domain entity - ánh xạ 1:1 với bảng users trong DB
// Match với migration 000001_create_users_table.up.sql
// Mỗi user đều có thể là tác giả (author) của sách.
type User struct {
	// Identity
	ID       uuid.UUID `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`

	// Authentication
	PasswordHash string `db:"password_hash" json:"-"` // Never expose in JSON

	// Profile
	FirstName       string  `db:"first_name" json:"first_name"`
	LastName        string  `db:"last_name" json:"last_name"`
	AuthorPseudonym *string `db:"author_pseudonym" json:"author_pseudonym,omitempty"`

	// Authorization
	IsAdmin bool `db:"is_admin" json:"is_admin"`

	// Timestamps
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Identity trả về các field dùng để tính displayed name
func (u *User) Identity() identity.Identity {
	return identity.Identity{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Pseudonym: u.AuthorPseudonym,
	}
}

// DisplayedName: pseudonym → real name → username
func (u *User) DisplayedName() string {
	return identity.ResolveDisplayedName(u.Identity())
}

// ToActor chuyển user thành actor cho access policy
func (u *User) ToActor() *access.Actor {
	return &access.Actor{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
}

// ToDTO converts entity sang response shape {id, username, displayed_name}
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:            u.ID,
		Username:      u.Username,
		DisplayedName: u.DisplayedName(),
	}
}
