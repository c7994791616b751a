// Package impl provides repository implementations that delegate to the DAO layer.
// This separation allows repositories to focus on business logic while DAOs handle
// database-specific operations.
package impl

import (
	"context"
	"time"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
	"github.com/gatherhall/plugin-trust/internal/domain/repository"
)

// pluginRepository implements repository.PluginRepository by delegating to PluginDAO.
type pluginRepository struct {
	dao dao.PluginDAO
}

// NewPluginRepository creates a new PluginRepository instance.
func NewPluginRepository(pluginDAO dao.PluginDAO) repository.PluginRepository {
	return &pluginRepository{dao: pluginDAO}
}

func (r *pluginRepository) CreateWithInstallation(ctx context.Context, plugin *entity.Plugin, installation *entity.CommunityPlugin) error {
	return r.dao.CreateWithInstallation(ctx, plugin, installation)
}

func (r *pluginRepository) GetByID(ctx context.Context, id string) (*entity.Plugin, error) {
	return r.dao.FindByID(ctx, id)
}

func (r *pluginRepository) UpdateContent(ctx context.Context, plugin *entity.Plugin) error {
	return r.dao.UpdateContent(ctx, plugin)
}

func (r *pluginRepository) DeleteCascade(ctx context.Context, pluginID string) ([]string, error) {
	return r.dao.SoftDeleteCascade(ctx, pluginID)
}

func (r *pluginRepository) GetAppstorePlugin(ctx context.Context, pluginID string) (*dao.AppstorePluginRow, error) {
	return r.dao.FindAppstorePlugin(ctx, pluginID)
}

func (r *pluginRepository) ListAppstorePlugins(ctx context.Context, query dao.AppstoreQuery) ([]*dao.AppstorePluginRow, error) {
	return r.dao.ListAppstorePlugins(ctx, query)
}

func (r *pluginRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.dao.PurgeDeletedBefore(ctx, cutoff)
}

// communityPluginRepository implements repository.CommunityPluginRepository.
type communityPluginRepository struct {
	dao dao.CommunityPluginDAO
}

// NewCommunityPluginRepository creates a new CommunityPluginRepository instance.
func NewCommunityPluginRepository(installationDAO dao.CommunityPluginDAO) repository.CommunityPluginRepository {
	return &communityPluginRepository{dao: installationDAO}
}

func (r *communityPluginRepository) Create(ctx context.Context, installation *entity.CommunityPlugin) error {
	return r.dao.Create(ctx, installation)
}

func (r *communityPluginRepository) GetByID(ctx context.Context, id string) (*entity.CommunityPlugin, error) {
	return r.dao.FindByID(ctx, id)
}

func (r *communityPluginRepository) GetByCommunityAndPlugin(ctx context.Context, communityID, pluginID string) (*entity.CommunityPlugin, error) {
	return r.dao.FindByCommunityAndPlugin(ctx, communityID, pluginID)
}

func (r *communityPluginRepository) Update(ctx context.Context, installation *entity.CommunityPlugin) error {
	return r.dao.Update(ctx, installation)
}

func (r *communityPluginRepository) Delete(ctx context.Context, id string) error {
	return r.dao.SoftDelete(ctx, id)
}

func (r *communityPluginRepository) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	return r.dao.CountByCommunity(ctx, communityID)
}

func (r *communityPluginRepository) ListByCommunity(ctx context.Context, communityID string) ([]*entity.CommunityPlugin, error) {
	return r.dao.ListByCommunity(ctx, communityID)
}

func (r *communityPluginRepository) ListCommunityIDs(ctx context.Context, pluginID string, limit, offset int) ([]string, error) {
	return r.dao.ListCommunityIDs(ctx, pluginID, limit, offset)
}

// userPluginStateRepository implements repository.UserPluginStateRepository.
type userPluginStateRepository struct {
	dao dao.UserPluginStateDAO
}

// NewUserPluginStateRepository creates a new UserPluginStateRepository instance.
func NewUserPluginStateRepository(stateDAO dao.UserPluginStateDAO) repository.UserPluginStateRepository {
	return &userPluginStateRepository{dao: stateDAO}
}

func (r *userPluginStateRepository) Save(ctx context.Context, state *entity.UserPluginState) error {
	return r.dao.Upsert(ctx, state)
}

func (r *userPluginStateRepository) GetByUserAndPlugin(ctx context.Context, userID, pluginID string) (*entity.UserPluginState, error) {
	return r.dao.FindByUserAndPlugin(ctx, userID, pluginID)
}

func (r *userPluginStateRepository) ResetByPlugin(ctx context.Context, pluginID string) error {
	return r.dao.ResetByPlugin(ctx, pluginID)
}

// reportRepository implements repository.ReportRepository.
type reportRepository struct {
	dao dao.ReportDAO
}

// NewReportRepository creates a new ReportRepository instance.
func NewReportRepository(reportDAO dao.ReportDAO) repository.ReportRepository {
	return &reportRepository{dao: reportDAO}
}

func (r *reportRepository) CountUnresolved(ctx context.Context, targetID string) (int64, error) {
	return r.dao.CountUnresolved(ctx, targetID)
}
