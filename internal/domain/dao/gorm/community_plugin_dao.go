package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

type communityPluginGormDAO struct {
	*baseGormDAO[entity.CommunityPlugin]
}

// NewCommunityPluginDAO creates a GORM-backed CommunityPluginDAO.
func NewCommunityPluginDAO(db *gorm.DB) dao.CommunityPluginDAO {
	return &communityPluginGormDAO{baseGormDAO: newBaseGormDAO[entity.CommunityPlugin](db)}
}

func (d *communityPluginGormDAO) Create(ctx context.Context, installation *entity.CommunityPlugin) error {
	return d.getDB().WithContext(ctx).Create(installation).Error
}

func (d *communityPluginGormDAO) FindByID(ctx context.Context, id string) (*entity.CommunityPlugin, error) {
	return d.findByField(ctx, "id", id)
}

func (d *communityPluginGormDAO) FindByCommunityAndPlugin(ctx context.Context, communityID, pluginID string) (*entity.CommunityPlugin, error) {
	var installation entity.CommunityPlugin
	err := d.getDB().WithContext(ctx).
		Where("community_id = ? AND plugin_id = ?", communityID, pluginID).
		First(&installation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &installation, nil
}

func (d *communityPluginGormDAO) Update(ctx context.Context, installation *entity.CommunityPlugin) error {
	return d.getDB().WithContext(ctx).
		Model(&entity.CommunityPlugin{}).
		Where("id = ?", installation.ID).
		Updates(map[string]any{
			"name":   installation.Name,
			"config": installation.Config,
		}).Error
}

func (d *communityPluginGormDAO) SoftDelete(ctx context.Context, id string) error {
	return d.getDB().WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.CommunityPlugin{}).Error
}

func (d *communityPluginGormDAO) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	return d.countByField(ctx, "community_id", communityID)
}

func (d *communityPluginGormDAO) ListByCommunity(ctx context.Context, communityID string) ([]*entity.CommunityPlugin, error) {
	var installations []*entity.CommunityPlugin
	err := d.getDB().WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("created_at ASC").
		Find(&installations).Error
	if err != nil {
		return nil, err
	}
	return installations, nil
}

func (d *communityPluginGormDAO) ListCommunityIDs(ctx context.Context, pluginID string, limit, offset int) ([]string, error) {
	var communityIDs []string
	query := d.getDB().WithContext(ctx).
		Model(&entity.CommunityPlugin{}).
		Where("plugin_id = ?", pluginID).
		Order("created_at DESC")
	// Offset without a limit is not portable SQL; an unbounded listing
	// always starts from the beginning.
	if limit >= 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Pluck("community_id", &communityIDs).Error; err != nil {
		return nil, err
	}
	return communityIDs, nil
}
