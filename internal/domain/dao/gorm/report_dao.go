package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

type reportGormDAO struct {
	*baseGormDAO[entity.Report]
}

// NewReportDAO creates a GORM-backed ReportDAO.
func NewReportDAO(db *gorm.DB) dao.ReportDAO {
	return &reportGormDAO{baseGormDAO: newBaseGormDAO[entity.Report](db)}
}

func (d *reportGormDAO) Create(ctx context.Context, report *entity.Report) error {
	return d.getDB().WithContext(ctx).Create(report).Error
}

func (d *reportGormDAO) CountUnresolved(ctx context.Context, targetID string) (int64, error) {
	var count int64
	err := d.getDB().WithContext(ctx).
		Model(&entity.Report{}).
		Where("target_id = ? AND resolved = ?", targetID, false).
		Count(&count).Error
	return count, err
}
