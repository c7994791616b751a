// Package request defines the HTTP request DTOs.
package request

import "github.com/gatherhall/plugin-trust/internal/domain/entity"

// PluginData carries the plugin definition content shared by all
// installations. Only the owner community may change it.
type PluginData struct {
	PluginID              string                   `json:"pluginId,omitempty"`
	URL                   string                   `json:"url" binding:"required,max=500"`
	Description           string                   `json:"description,omitempty" binding:"max=1000"`
	ImageID               string                   `json:"imageId,omitempty" binding:"max=36"`
	Permissions           entity.PluginPermissions `json:"permissions"`
	Clonable              bool                     `json:"clonable"`
	AppstoreEnabled       bool                     `json:"appstoreEnabled"`
	Tags                  []string                 `json:"tags,omitempty" binding:"max=10,dive,max=50"`
	RequiresIsolationMode bool                     `json:"requiresIsolationMode"`
}

// CreatePluginRequest represents a plugin creation request
type CreatePluginRequest struct {
	CommunityID string               `json:"communityId" binding:"required,uuid"`
	Name        string               `json:"name" binding:"required,max=200"`
	Config      *entity.PluginConfig `json:"config,omitempty"`
	PluginData  PluginData           `json:"pluginData" binding:"required"`
}

// ClonePluginRequest represents a request to install an existing
// clonable plugin into another community
type ClonePluginRequest struct {
	PluginID          string `json:"pluginId" binding:"required,uuid"`
	TargetCommunityID string `json:"targetCommunityId" binding:"required,uuid"`
	Name              string `json:"name,omitempty" binding:"max=200"`
}

// UpdatePluginRequest represents a plugin update request. ID references
// the installation; PluginData is only accepted from the owner community.
type UpdatePluginRequest struct {
	ID          string               `json:"id" binding:"required,uuid"`
	CommunityID string               `json:"communityId" binding:"required,uuid"`
	Name        string               `json:"name" binding:"required,max=200"`
	Config      *entity.PluginConfig `json:"config,omitempty"`
	PluginData  *PluginData          `json:"pluginData,omitempty"`
}

// DeletePluginRequest represents a plugin deletion request. ID
// references the installation.
type DeletePluginRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}

// PluginRequestRequest carries a signed plugin request: the exact
// serialized envelope and its base64 signature.
type PluginRequestRequest struct {
	Request   string `json:"request" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// AcceptPluginPermissionsRequest represents a user's trust decision.
// PluginID references the installation.
type AcceptPluginPermissionsRequest struct {
	PluginID    string   `json:"pluginId" binding:"required,uuid"`
	Permissions []string `json:"permissions" binding:"dive,max=50"`
}

// GetAppstorePluginRequest fetches one catalog entry
type GetAppstorePluginRequest struct {
	PluginID string `json:"pluginId" binding:"required,uuid"`
}

// GetAppstorePluginsRequest lists catalog entries
type GetAppstorePluginsRequest struct {
	Search string   `json:"search,omitempty" binding:"max=200"`
	Tags   []string `json:"tags,omitempty" binding:"max=10,dive,max=50"`
	Limit  int      `json:"limit,omitempty" binding:"min=0,max=100"`
	Offset int      `json:"offset,omitempty" binding:"min=0"`
}

// GetPluginCommunitiesRequest lists communities installing a plugin
type GetPluginCommunitiesRequest struct {
	PluginID string `json:"pluginId" binding:"required,uuid"`
	Limit    int    `json:"limit,omitempty" binding:"min=0,max=100"`
	Offset   int    `json:"offset,omitempty" binding:"min=0"`
}
