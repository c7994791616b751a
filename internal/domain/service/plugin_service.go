package service

import (
	"context"

	"github.com/gatherhall/plugin-trust/internal/dto/request"
	"github.com/gatherhall/plugin-trust/internal/dto/response"
)

// PluginService defines the interface for plugin lifecycle and trust
// operations. userID identifies the authenticated caller; the empty
// string means anonymous.
type PluginService interface {
	// CreatePlugin creates a plugin with a fresh keypair and installs it
	// into its owner community
	CreatePlugin(ctx context.Context, userID string, req *request.CreatePluginRequest) (*response.CreatePluginResponse, error)

	// ClonePlugin installs an existing clonable plugin into another community
	ClonePlugin(ctx context.Context, userID string, req *request.ClonePluginRequest) (*response.OkResponse, error)

	// UpdatePlugin updates an installation and, for the owner community,
	// the shared plugin content
	UpdatePlugin(ctx context.Context, userID string, req *request.UpdatePluginRequest) (*response.OkResponse, error)

	// DeletePlugin removes an installation; the owner community's removal
	// cascades to every installing community
	DeletePlugin(ctx context.Context, userID string, req *request.DeletePluginRequest) (*response.OkResponse, error)

	// HandlePluginRequest verifies and answers a signed plugin request
	HandlePluginRequest(ctx context.Context, userID string, req *request.PluginRequestRequest) (*response.SignedPluginResponse, error)

	// AcceptPluginPermissions records the user's trust decision for a plugin
	AcceptPluginPermissions(ctx context.Context, userID string, req *request.AcceptPluginPermissionsRequest) (*response.OkResponse, error)

	// GetAppstorePlugin retrieves one publicly visible catalog entry
	GetAppstorePlugin(ctx context.Context, req *request.GetAppstorePluginRequest) (*response.AppstorePluginResponse, error)

	// GetAppstorePlugins lists publicly visible catalog entries
	GetAppstorePlugins(ctx context.Context, req *request.GetAppstorePluginsRequest) (*response.AppstorePluginsResponse, error)

	// GetPluginCommunities lists the communities installing a plugin
	GetPluginCommunities(ctx context.Context, req *request.GetPluginCommunitiesRequest) (*response.PluginCommunitiesResponse, error)
}
