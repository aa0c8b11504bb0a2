package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository định nghĩa contract cho data access layer
// Interface này cho phép mock trong unit tests
type Repository interface {
	// Create tạo user mới, điền ID và timestamps
	// Returns: ErrUsernameTaken nếu username đã tồn tại
	Create(ctx context.Context, user *User) error

	// FindByID tìm user theo ID (cache-aside qua Redis)
	// Returns: ErrUserNotFound nếu không tìm thấy
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindFreshByID giống FindByID nhưng không qua cache
	// Returns: ErrUserNotFound nếu không tìm thấy
	FindFreshByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername tìm user theo username (dùng cho login, không cache)
	// Returns: ErrUserNotFound nếu không tìm thấy
	FindByUsername(ctx context.Context, username string) (*User, error)

	// List trả về users theo username, kèm tổng số
	List(ctx context.Context, offset, limit int) ([]User, int, error)

	// UpdateProfile cập nhật first_name, last_name, author_pseudonym
	// Returns: ErrUserNotFound nếu user không tồn tại
	UpdateProfile(ctx context.Context, user *User) error
}
