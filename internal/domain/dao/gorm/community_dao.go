package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

type communityGormDAO struct {
	*baseGormDAO[entity.Community]
}

// NewCommunityDAO creates a GORM-backed CommunityDAO.
func NewCommunityDAO(db *gorm.DB) dao.CommunityDAO {
	return &communityGormDAO{baseGormDAO: newBaseGormDAO[entity.Community](db)}
}

func (d *communityGormDAO) FindByID(ctx context.Context, id string) (*entity.Community, error) {
	return d.findByField(ctx, "id", id)
}

func (d *communityGormDAO) FindRole(ctx context.Context, roleID string) (*entity.Role, error) {
	var role entity.Role
	err := d.getDB().WithContext(ctx).Where("id = ?", roleID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (d *communityGormDAO) FindAdminRole(ctx context.Context, communityID string) (*entity.Role, error) {
	var role entity.Role
	err := d.getDB().WithContext(ctx).
		Where("community_id = ? AND title = ? AND type = ?",
			communityID, entity.PredefinedRoleAdmin, entity.RoleTypePredefined).
		First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (d *communityGormDAO) ListRoles(ctx context.Context, communityID string) ([]*entity.Role, error) {
	var roles []*entity.Role
	err := d.getDB().WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("created_at ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (d *communityGormDAO) UserHasRole(ctx context.Context, userID, roleID string) (bool, error) {
	var count int64
	err := d.getDB().WithContext(ctx).
		Model(&entity.UserRoleAssignment{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *communityGormDAO) ListUserRoleIDs(ctx context.Context, userID, communityID string) ([]string, error) {
	var roleIDs []string
	err := d.getDB().WithContext(ctx).
		Model(&entity.UserRoleAssignment{}).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Pluck("role_id", &roleIDs).Error
	if err != nil {
		return nil, err
	}
	return roleIDs, nil
}

func (d *communityGormDAO) AssignRole(ctx context.Context, communityID, roleID, userID string) error {
	assignment := entity.UserRoleAssignment{
		UserID:      userID,
		RoleID:      roleID,
		CommunityID: communityID,
	}
	return d.getDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
			DoNothing: true,
		}).
		Create(&assignment).Error
}
