package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

type userPluginStateGormDAO struct {
	*baseGormDAO[entity.UserPluginState]
}

// NewUserPluginStateDAO creates a GORM-backed UserPluginStateDAO.
func NewUserPluginStateDAO(db *gorm.DB) dao.UserPluginStateDAO {
	return &userPluginStateGormDAO{baseGormDAO: newBaseGormDAO[entity.UserPluginState](db)}
}

func (d *userPluginStateGormDAO) Upsert(ctx context.Context, state *entity.UserPluginState) error {
	return d.getDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "plugin_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"accepted_permissions", "updated_at"}),
		}).
		Create(state).Error
}

func (d *userPluginStateGormDAO) FindByUserAndPlugin(ctx context.Context, userID, pluginID string) (*entity.UserPluginState, error) {
	var state entity.UserPluginState
	err := d.getDB().WithContext(ctx).
		Where("user_id = ? AND plugin_id = ?", userID, pluginID).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (d *userPluginStateGormDAO) ResetByPlugin(ctx context.Context, pluginID string) error {
	return d.getDB().WithContext(ctx).
		Model(&entity.UserPluginState{}).
		Where("plugin_id = ?", pluginID).
		Update("accepted_permissions", nil).Error
}
