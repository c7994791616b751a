package impl

import (
	"context"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
	"github.com/gatherhall/plugin-trust/internal/domain/repository"
)

// communityRepository implements repository.CommunityRepository by delegating to CommunityDAO.
type communityRepository struct {
	dao dao.CommunityDAO
}

// NewCommunityRepository creates a new CommunityRepository instance.
func NewCommunityRepository(communityDAO dao.CommunityDAO) repository.CommunityRepository {
	return &communityRepository{dao: communityDAO}
}

func (r *communityRepository) GetByID(ctx context.Context, id string) (*entity.Community, error) {
	return r.dao.FindByID(ctx, id)
}

func (r *communityRepository) GetRole(ctx context.Context, roleID string) (*entity.Role, error) {
	return r.dao.FindRole(ctx, roleID)
}

func (r *communityRepository) GetAdminRole(ctx context.Context, communityID string) (*entity.Role, error) {
	return r.dao.FindAdminRole(ctx, communityID)
}

func (r *communityRepository) ListRoles(ctx context.Context, communityID string) ([]*entity.Role, error) {
	return r.dao.ListRoles(ctx, communityID)
}

func (r *communityRepository) UserHasRole(ctx context.Context, userID, roleID string) (bool, error) {
	return r.dao.UserHasRole(ctx, userID, roleID)
}

func (r *communityRepository) ListUserRoleIDs(ctx context.Context, userID, communityID string) ([]string, error) {
	return r.dao.ListUserRoleIDs(ctx, userID, communityID)
}

func (r *communityRepository) AssignRole(ctx context.Context, communityID, roleID, userID string) error {
	return r.dao.AssignRole(ctx, communityID, roleID, userID)
}

// userRepository implements repository.UserRepository by delegating to UserDAO.
type userRepository struct {
	dao dao.UserDAO
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(userDAO dao.UserDAO) repository.UserRepository {
	return &userRepository{dao: userDAO}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.dao.Create(ctx, user)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.dao.FindByID(ctx, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.dao.FindByUsername(ctx, username)
}

func (r *userRepository) ListFriends(ctx context.Context, userID string, limit, offset int) ([]*dao.FriendRow, error) {
	return r.dao.ListFriends(ctx, userID, limit, offset)
}
