package gorm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

// appstoreBaseQuery joins plugins with the owner installation (for the
// display name), all live installations (for the community count), and
// unresolved reports (for the abuse gate). Grouped per plugin.
const appstoreBaseQuery = `
SELECT
	p.id AS plugin_id,
	p.owner_community_id AS owner_community_id,
	p.url AS url,
	p.description AS description,
	COALESCE(p.permissions, '') AS permissions,
	p.image_id AS image_id,
	COALESCE(p.tags, '') AS tags,
	owner_cp.name AS name,
	COUNT(DISTINCT cp.community_id) AS community_count,
	p.appstore_enabled AS appstore_enabled
FROM plugins p
JOIN communities_plugins owner_cp
	ON owner_cp.plugin_id = p.id
	AND owner_cp.community_id = p.owner_community_id
	AND owner_cp.deleted_at IS NULL
JOIN communities_plugins cp
	ON cp.plugin_id = p.id
	AND cp.deleted_at IS NULL
LEFT JOIN reports r
	ON r.target_id = p.id
	AND r.resolved = ?
WHERE p.deleted_at IS NULL
	AND (p.appstore_enabled OR p.clonable)
`

type pluginGormDAO struct {
	*baseGormDAO[entity.Plugin]
}

// NewPluginDAO creates a GORM-backed PluginDAO.
func NewPluginDAO(db *gorm.DB) dao.PluginDAO {
	return &pluginGormDAO{baseGormDAO: newBaseGormDAO[entity.Plugin](db)}
}

func (d *pluginGormDAO) CreateWithInstallation(ctx context.Context, plugin *entity.Plugin, installation *entity.CommunityPlugin) error {
	return d.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plugin).Error; err != nil {
			return err
		}
		return tx.Create(installation).Error
	})
}

func (d *pluginGormDAO) FindByID(ctx context.Context, id string) (*entity.Plugin, error) {
	return d.findByField(ctx, "id", id)
}

func (d *pluginGormDAO) UpdateContent(ctx context.Context, plugin *entity.Plugin) error {
	return d.getDB().WithContext(ctx).
		Model(&entity.Plugin{}).
		Where("id = ?", plugin.ID).
		Updates(map[string]any{
			"url":                     plugin.URL,
			"permissions":             plugin.Permissions,
			"clonable":                plugin.Clonable,
			"appstore_enabled":        plugin.AppstoreEnabled,
			"tags":                    plugin.Tags,
			"description":             plugin.Description,
			"image_id":                plugin.ImageID,
			"requires_isolation_mode": plugin.RequiresIsolationMode,
		}).Error
}

func (d *pluginGormDAO) SoftDeleteCascade(ctx context.Context, pluginID string) ([]string, error) {
	var communityIDs []string
	err := d.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.CommunityPlugin{}).
			Where("plugin_id = ?", pluginID).
			Pluck("community_id", &communityIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("plugin_id = ?", pluginID).
			Delete(&entity.CommunityPlugin{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", pluginID).
			Delete(&entity.Plugin{}).Error
	})
	if err != nil {
		return nil, err
	}
	return communityIDs, nil
}

func (d *pluginGormDAO) FindAppstorePlugin(ctx context.Context, pluginID string) (*dao.AppstorePluginRow, error) {
	var rows []*appstoreScanRow
	err := d.getDB().WithContext(ctx).
		Raw(appstoreBaseQuery+" AND p.id = ? GROUP BY p.id, owner_cp.name", false, pluginID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].decode()
}

func (d *pluginGormDAO) ListAppstorePlugins(ctx context.Context, query dao.AppstoreQuery) ([]*dao.AppstorePluginRow, error) {
	sql := appstoreBaseQuery
	args := []any{false}

	if query.Search != "" {
		sql += ` AND LOWER(owner_cp.name) LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(strings.ToLower(query.Search))+"%")
	}

	// Tags are a JSON text column, so an element match is a LIKE on the
	// quoted tag. The filter has to run before pagination.
	for _, tag := range query.Tags {
		sql += ` AND LOWER(p.tags) LIKE ? ESCAPE '\'`
		args = append(args, `%"`+escapeLike(strings.ToLower(tag))+`"%`)
	}

	// Appstore-enabled plugins stay listed regardless of reports;
	// merely-clonable ones drop out once enough unresolved reports pile up.
	// Appstore-enabled entries sort ahead of the merely clonable, newest first.
	sql += " GROUP BY p.id, owner_cp.name" +
		" HAVING p.appstore_enabled OR COUNT(DISTINCT r.id) < ?" +
		" ORDER BY p.appstore_enabled DESC, p.created_at DESC"
	args = append(args, query.MinReportsToFlag)

	if query.Limit > 0 {
		sql += " LIMIT ? OFFSET ?"
		args = append(args, query.Limit, query.Offset)
	}

	var scanned []*appstoreScanRow
	if err := d.getDB().WithContext(ctx).Raw(sql, args...).Scan(&scanned).Error; err != nil {
		return nil, err
	}
	rows := make([]*dao.AppstorePluginRow, 0, len(scanned))
	for _, sr := range scanned {
		row, err := sr.decode()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (d *pluginGormDAO) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	err := d.getDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Delete(&entity.CommunityPlugin{})
		if res.Error != nil {
			return res.Error
		}
		purged += res.RowsAffected

		res = tx.Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Delete(&entity.Plugin{})
		if res.Error != nil {
			return res.Error
		}
		purged += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// appstoreScanRow receives the raw catalog projection. The JSON columns
// come back as plain text from a raw scan, so they are decoded into the
// typed row afterwards.
type appstoreScanRow struct {
	PluginID         string
	OwnerCommunityID string
	URL              string
	Description      string
	Permissions      string
	ImageID          string
	Tags             string
	Name             string
	CommunityCount   int64
	AppstoreEnabled  bool
}

func (r *appstoreScanRow) decode() (*dao.AppstorePluginRow, error) {
	row := &dao.AppstorePluginRow{
		PluginID:         r.PluginID,
		OwnerCommunityID: r.OwnerCommunityID,
		URL:              r.URL,
		Description:      r.Description,
		ImageID:          r.ImageID,
		Name:             r.Name,
		CommunityCount:   r.CommunityCount,
		AppstoreEnabled:  r.AppstoreEnabled,
	}
	if r.Permissions != "" {
		if err := json.Unmarshal([]byte(r.Permissions), &row.Permissions); err != nil {
			return nil, err
		}
	}
	if r.Tags != "" {
		if err := json.Unmarshal([]byte(r.Tags), &row.Tags); err != nil {
			return nil, err
		}
	}
	return row, nil
}
