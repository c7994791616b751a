package repository

import (
	"context"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

// CommunityRepository defines the interface for community and role operations
type CommunityRepository interface {
	// GetByID retrieves a community by ID, or nil when missing
	GetByID(ctx context.Context, id string) (*entity.Community, error)

	// GetRole retrieves a role by ID, or nil when missing
	GetRole(ctx context.Context, roleID string) (*entity.Role, error)

	// GetAdminRole retrieves the community's predefined Admin role
	GetAdminRole(ctx context.Context, communityID string) (*entity.Role, error)

	// ListRoles retrieves all roles of a community
	ListRoles(ctx context.Context, communityID string) ([]*entity.Role, error)

	// UserHasRole checks whether the user holds the role
	UserHasRole(ctx context.Context, userID, roleID string) (bool, error)

	// ListUserRoleIDs retrieves IDs of the user's roles in the community
	ListUserRoleIDs(ctx context.Context, userID, communityID string) ([]string, error)

	// AssignRole grants the role to the user; re-granting is a no-op
	AssignRole(ctx context.Context, communityID, roleID, userID string) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user with accounts and premium features, or nil
	// when missing
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByUsername retrieves a user by username, or nil when missing
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// ListFriends retrieves the user's friends, paginated
	ListFriends(ctx context.Context, userID string, limit, offset int) ([]*dao.FriendRow, error)
}
