package dao

import (
	"context"

	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

// FriendRow is the friends-list projection served to plugins.
type FriendRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ImageID string `json:"-"`
}

// UserDAO defines the user reads the trust pipeline depends on.
type UserDAO interface {
	// Create persists a user.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user with linked accounts and premium features
	// preloaded. Returns nil, nil when missing.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByUsername retrieves a user by username. Returns nil, nil when missing.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// ListFriends retrieves the user's friends with display name and
	// image id, paginated.
	ListFriends(ctx context.Context, userID string, limit, offset int) ([]*FriendRow, error)
}
