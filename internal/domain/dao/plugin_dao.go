package dao

import (
	"context"
	"time"

	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

// AppstorePluginRow is the denormalized catalog projection returned by
// the appstore queries: plugin content plus the owner installation name
// and the count of installing communities.
type AppstorePluginRow struct {
	PluginID         string                   `json:"pluginId"`
	OwnerCommunityID string                   `json:"ownerCommunityId"`
	URL              string                   `json:"url"`
	Description      string                   `json:"description"`
	Permissions      entity.PluginPermissions `json:"permissions"`
	ImageID          string                   `json:"imageId"`
	Tags             entity.StringList        `json:"tags"`
	Name             string                   `json:"name"`
	CommunityCount   int64                    `json:"communityCount"`
	AppstoreEnabled  bool                     `json:"appstoreEnabled"`
}

// AppstoreQuery holds the appstore list filters.
type AppstoreQuery struct {
	Search string
	Tags   []string
	Limit  int
	Offset int
	// MinReportsToFlag hides plugins with at least this many unresolved
	// reports unless they are appstore-enabled.
	MinReportsToFlag int
}

// PluginDAO defines data access for plugin definitions.
type PluginDAO interface {
	// CreateWithInstallation persists a plugin and its owner-community
	// installation in one transaction.
	CreateWithInstallation(ctx context.Context, plugin *entity.Plugin, installation *entity.CommunityPlugin) error

	// FindByID retrieves a non-deleted plugin. Returns nil, nil when missing.
	FindByID(ctx context.Context, id string) (*entity.Plugin, error)

	// UpdateContent updates the plugin's reusable content fields.
	UpdateContent(ctx context.Context, plugin *entity.Plugin) error

	// SoftDeleteCascade soft-deletes the plugin and every non-deleted
	// installation, returning the ids of the affected communities.
	SoftDeleteCascade(ctx context.Context, pluginID string) ([]string, error)

	// FindAppstorePlugin retrieves one catalog entry. Returns nil, nil
	// when the plugin is missing or not publicly visible.
	FindAppstorePlugin(ctx context.Context, pluginID string) (*AppstorePluginRow, error)

	// ListAppstorePlugins retrieves catalog entries matching the query.
	ListAppstorePlugins(ctx context.Context, query AppstoreQuery) ([]*AppstorePluginRow, error)

	// PurgeDeletedBefore hard-deletes plugin and installation rows
	// soft-deleted before the cutoff, returning the number of rows removed.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CommunityPluginDAO defines data access for plugin installations.
type CommunityPluginDAO interface {
	// Create persists a new installation.
	Create(ctx context.Context, installation *entity.CommunityPlugin) error

	// FindByID retrieves a non-deleted installation. Returns nil, nil when missing.
	FindByID(ctx context.Context, id string) (*entity.CommunityPlugin, error)

	// FindByCommunityAndPlugin retrieves the non-deleted installation for
	// a (community, plugin) pair. Returns nil, nil when missing.
	FindByCommunityAndPlugin(ctx context.Context, communityID, pluginID string) (*entity.CommunityPlugin, error)

	// Update persists installation name/config changes.
	Update(ctx context.Context, installation *entity.CommunityPlugin) error

	// SoftDelete soft-deletes one installation.
	SoftDelete(ctx context.Context, id string) error

	// CountByCommunity counts non-deleted installations in a community.
	CountByCommunity(ctx context.Context, communityID string) (int64, error)

	// ListByCommunity retrieves a community's non-deleted installations.
	ListByCommunity(ctx context.Context, communityID string) ([]*entity.CommunityPlugin, error)

	// ListCommunityIDs retrieves the ids of communities with a non-deleted
	// installation of the plugin, newest first. limit < 0 means no limit.
	ListCommunityIDs(ctx context.Context, pluginID string, limit, offset int) ([]string, error)
}

// UserPluginStateDAO defines data access for per-user trust decisions.
type UserPluginStateDAO interface {
	// Upsert replaces the user's accepted set for the plugin (last write wins).
	Upsert(ctx context.Context, state *entity.UserPluginState) error

	// FindByUserAndPlugin retrieves a user's state. Returns nil, nil when missing.
	FindByUserAndPlugin(ctx context.Context, userID, pluginID string) (*entity.UserPluginState, error)

	// ResetByPlugin clears every user's accepted permissions for the plugin.
	ResetByPlugin(ctx context.Context, pluginID string) error
}

// ReportDAO defines data access for abuse reports.
type ReportDAO interface {
	// Create persists a report.
	Create(ctx context.Context, report *entity.Report) error

	// CountUnresolved counts unresolved reports against a target.
	CountUnresolved(ctx context.Context, targetID string) (int64, error)
}
