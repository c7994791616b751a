package repository

import (
	"context"
	"time"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

// PluginRepository defines the interface for plugin definition operations
type PluginRepository interface {
	// CreateWithInstallation creates a plugin together with its
	// owner-community installation
	CreateWithInstallation(ctx context.Context, plugin *entity.Plugin, installation *entity.CommunityPlugin) error

	// GetByID retrieves a plugin by ID, or nil when missing
	GetByID(ctx context.Context, id string) (*entity.Plugin, error)

	// UpdateContent updates the plugin's shared content fields
	UpdateContent(ctx context.Context, plugin *entity.Plugin) error

	// DeleteCascade soft-deletes the plugin and all its installations,
	// returning the affected community IDs
	DeleteCascade(ctx context.Context, pluginID string) ([]string, error)

	// GetAppstorePlugin retrieves one publicly visible catalog entry
	GetAppstorePlugin(ctx context.Context, pluginID string) (*dao.AppstorePluginRow, error)

	// ListAppstorePlugins retrieves catalog entries matching the query
	ListAppstorePlugins(ctx context.Context, query dao.AppstoreQuery) ([]*dao.AppstorePluginRow, error)

	// PurgeDeletedBefore hard-deletes rows soft-deleted before the cutoff
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CommunityPluginRepository defines the interface for installation operations
type CommunityPluginRepository interface {
	// Create creates a new installation
	Create(ctx context.Context, installation *entity.CommunityPlugin) error

	// GetByID retrieves an installation by ID, or nil when missing
	GetByID(ctx context.Context, id string) (*entity.CommunityPlugin, error)

	// GetByCommunityAndPlugin retrieves the installation for a
	// (community, plugin) pair, or nil when missing
	GetByCommunityAndPlugin(ctx context.Context, communityID, pluginID string) (*entity.CommunityPlugin, error)

	// Update updates an installation's name and config
	Update(ctx context.Context, installation *entity.CommunityPlugin) error

	// Delete soft-deletes one installation
	Delete(ctx context.Context, id string) error

	// CountByCommunity counts a community's installations
	CountByCommunity(ctx context.Context, communityID string) (int64, error)

	// ListByCommunity retrieves a community's installations
	ListByCommunity(ctx context.Context, communityID string) ([]*entity.CommunityPlugin, error)

	// ListCommunityIDs retrieves IDs of communities installing the plugin,
	// newest first; limit < 0 lists all
	ListCommunityIDs(ctx context.Context, pluginID string, limit, offset int) ([]string, error)
}

// UserPluginStateRepository defines the interface for per-user trust state
type UserPluginStateRepository interface {
	// Save replaces the user's accepted permission set for the plugin
	Save(ctx context.Context, state *entity.UserPluginState) error

	// GetByUserAndPlugin retrieves a user's state, or nil when missing
	GetByUserAndPlugin(ctx context.Context, userID, pluginID string) (*entity.UserPluginState, error)

	// ResetByPlugin clears every user's accepted permissions for the plugin
	ResetByPlugin(ctx context.Context, pluginID string) error
}

// ReportRepository defines the interface for abuse report lookups.
// Reports are filed by the moderation surface; this API only reads them.
type ReportRepository interface {
	// CountUnresolved counts unresolved reports against a target
	CountUnresolved(ctx context.Context, targetID string) (int64, error)
}
