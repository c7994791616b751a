// Package events carries realtime plugin lifecycle notifications to
// connected clients over websockets. Plugin events are tiered: admins
// see the full payload, everyone else gets a copy with the installation
// config nulled out.
package events

import (
	"encoding/json"

	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

// Client-facing event type identifiers.
const (
	TypePluginEvent    = "cliPluginEvent"
	TypeCommunityEvent = "cliCommunityEvent"
)

// Plugin event actions.
const (
	ActionNew        = "new"
	ActionUpdate     = "update"
	ActionDataUpdate = "dataUpdate"
	ActionDelete     = "delete"
	ActionDataDelete = "dataDelete"
)

// NullableConfig wraps an installation config so the wire distinguishes
// "config omitted" (field absent) from "config redacted" (explicit
// null). Redaction for non-admins relies on the latter.
type NullableConfig struct {
	Config *entity.PluginConfig
}

// MarshalJSON implements json.Marshaler.
func (n NullableConfig) MarshalJSON() ([]byte, error) {
	if n.Config == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Config)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableConfig) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Config = nil
		return nil
	}
	return json.Unmarshal(data, &n.Config)
}

// PluginEventData is the payload of a plugin lifecycle event. Which
// fields are set depends on the action: installation-scoped actions
// (new/update/delete) carry installation fields, content-scoped actions
// (dataUpdate/dataDelete) carry plugin definition fields.
type PluginEventData struct {
	ID          string          `json:"id,omitempty"`
	CommunityID string          `json:"communityId,omitempty"`
	Name        string          `json:"name,omitempty"`
	Config      *NullableConfig `json:"config,omitempty"`

	PluginID         string                    `json:"pluginId,omitempty"`
	OwnerCommunityID string                    `json:"ownerCommunityId,omitempty"`
	URL              string                    `json:"url,omitempty"`
	Description      string                    `json:"description,omitempty"`
	ImageID          string                    `json:"imageId,omitempty"`
	Permissions      *entity.PluginPermissions `json:"permissions,omitempty"`
	Clonable         *bool                     `json:"clonable,omitempty"`
	ReportFlagged    *bool                     `json:"reportFlagged,omitempty"`

	// AcceptedPermissions is set (empty) on dataUpdate when a url change
	// reset every user's trust decision.
	AcceptedPermissions *entity.PermissionSet `json:"acceptedPermissions,omitempty"`
}

// PluginEvent is a plugin lifecycle notification.
type PluginEvent struct {
	Type   string          `json:"type"`
	Action string          `json:"action"`
	Data   PluginEventData `json:"data"`
}

// NewPluginEvent creates a PluginEvent with the standard type tag.
func NewPluginEvent(action string, data PluginEventData) *PluginEvent {
	return &PluginEvent{Type: TypePluginEvent, Action: action, Data: data}
}

// RedactForNonAdmins returns a copy safe for members without the admin
// role: the installation config is replaced with an explicit null. An
// event that never carried a config is returned unchanged.
func (e *PluginEvent) RedactForNonAdmins() *PluginEvent {
	redacted := *e
	if redacted.Data.Config != nil {
		redacted.Data.Config = &NullableConfig{}
	}
	return &redacted
}

// CommunityEventData is the payload of a community update event.
type CommunityEventData struct {
	ID        string `json:"id"`
	UpdatedAt string `json:"updatedAt"`
	Plugins   any    `json:"plugins,omitempty"`
}

// CommunityEvent is a community-level notification, used to push a
// refreshed plugin list to one user after permission acceptance.
type CommunityEvent struct {
	Type   string             `json:"type"`
	Action string             `json:"action"`
	Data   CommunityEventData `json:"data"`
}

// NewCommunityUpdateEvent creates a community update event.
func NewCommunityUpdateEvent(data CommunityEventData) *CommunityEvent {
	return &CommunityEvent{Type: TypeCommunityEvent, Action: ActionUpdate, Data: data}
}
