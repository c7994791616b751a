package dao

import (
	"context"

	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

// CommunityDAO defines the community and role reads the trust pipeline
// depends on, plus the single role-assignment write the giveRole action
// performs.
type CommunityDAO interface {
	// FindByID retrieves a non-deleted community. Returns nil, nil when missing.
	FindByID(ctx context.Context, id string) (*entity.Community, error)

	// FindRole retrieves a role by id. Returns nil, nil when missing.
	FindRole(ctx context.Context, roleID string) (*entity.Role, error)

	// FindAdminRole retrieves the community's predefined Admin role.
	// Returns nil, nil when missing.
	FindAdminRole(ctx context.Context, communityID string) (*entity.Role, error)

	// ListRoles retrieves all roles of a community.
	ListRoles(ctx context.Context, communityID string) ([]*entity.Role, error)

	// UserHasRole reports whether the user holds the role.
	UserHasRole(ctx context.Context, userID, roleID string) (bool, error)

	// ListUserRoleIDs retrieves ids of the roles the user holds in the community.
	ListUserRoleIDs(ctx context.Context, userID, communityID string) ([]string, error)

	// AssignRole adds the user to the role. Adding an already-held role
	// is a no-op.
	AssignRole(ctx context.Context, communityID, roleID, userID string) error
}
