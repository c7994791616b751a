package entity

import (
	"time"

	"gorm.io/gorm"
)

// PermissionKind identifies one grantable permission. The string values
// are the wire contract; plugin clients match on them.
type PermissionKind string

const (
	PermissionReadTwitter   PermissionKind = "READ_TWITTER"
	PermissionReadLukso     PermissionKind = "READ_LUKSO"
	PermissionReadFarcaster PermissionKind = "READ_FARCASTER"
	PermissionReadEmail     PermissionKind = "READ_EMAIL"
	PermissionReadFriends   PermissionKind = "READ_FRIENDS"
	// PermissionUserAccepted marks that the user has gone through the
	// acceptance flow at least once, independent of which permissions
	// they granted.
	PermissionUserAccepted PermissionKind = "USER_ACCEPTED"
)

// KnownPermission reports whether kind is one of the defined
// permission identifiers.
func KnownPermission(kind PermissionKind) bool {
	switch kind {
	case PermissionReadTwitter, PermissionReadLukso, PermissionReadFarcaster,
		PermissionReadEmail, PermissionReadFriends, PermissionUserAccepted:
		return true
	}
	return false
}

// Plugin is a third-party integration definition. The keypair is
// generated once at creation and is immutable for the plugin's
// lifetime; the private key never leaves the server after the creation
// response.
type Plugin struct {
	ID                    string            `gorm:"primaryKey;size:36" json:"id"`
	OwnerCommunityID      string            `gorm:"size:36;index;not null" json:"ownerCommunityId"`
	URL                   string            `gorm:"size:500;not null" json:"url"`
	PrivateKey            string            `gorm:"type:text;not null" json:"-"`
	PublicKey             string            `gorm:"type:text;not null" json:"-"`
	Permissions           PluginPermissions `gorm:"type:text" json:"permissions"`
	Clonable              bool              `gorm:"not null;default:false" json:"clonable"`
	AppstoreEnabled       bool              `gorm:"not null;default:false" json:"appstoreEnabled"`
	Tags                  StringList        `gorm:"type:text" json:"tags"`
	Description           string            `gorm:"size:1000" json:"description"`
	ImageID               string            `gorm:"size:36" json:"imageId"`
	RequiresIsolationMode bool              `gorm:"not null;default:false" json:"requiresIsolationMode"`
	WarnAbusive           bool              `gorm:"not null;default:false" json:"warnAbusive"`
	CreatedAt             time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt             time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt             gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName specifies the table name for Plugin
func (Plugin) TableName() string {
	return "plugins"
}

// CommunityPlugin is one community's installation of a Plugin, including
// the owner community's own installation. At most one non-deleted row
// exists per (community, plugin) pair.
type CommunityPlugin struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	CommunityID string         `gorm:"size:36;index:idx_community_plugin,unique,where:deleted_at IS NULL;not null" json:"communityId"`
	PluginID    string         `gorm:"size:36;index:idx_community_plugin,unique,where:deleted_at IS NULL;index;not null" json:"pluginId"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Config      *PluginConfig  `gorm:"type:text" json:"config"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for CommunityPlugin
func (CommunityPlugin) TableName() string {
	return "communities_plugins"
}

// UserPluginState holds one user's trust decision for a plugin. The
// accepted set is replaced wholesale on every acceptance; it is not
// merged across calls.
type UserPluginState struct {
	ID                  uint          `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID              string        `gorm:"size:36;uniqueIndex:idx_user_plugin;not null" json:"userId"`
	PluginID            string        `gorm:"size:36;uniqueIndex:idx_user_plugin;index;not null" json:"pluginId"`
	AcceptedPermissions PermissionSet `gorm:"type:text" json:"acceptedPermissions"`
	CreatedAt           time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for UserPluginState
func (UserPluginState) TableName() string {
	return "user_plugin_state"
}

// Report is a user-filed abuse report against a plugin. Unresolved
// report counts gate appstore visibility.
type Report struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TargetID  string    `gorm:"size:36;index;not null" json:"targetId"`
	Resolved  bool      `gorm:"not null;default:false" json:"resolved"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "reports"
}
