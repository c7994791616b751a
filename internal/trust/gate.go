package trust

import (
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
	apperrors "github.com/gatherhall/plugin-trust/pkg/errors"
)

// Gate decides what a verified request is allowed to see or do. Read
// disclosure is the intersection of what the plugin declared and what
// the user accepted; action authorization is community-controlled
// through the installation config.
type Gate struct{}

// NewGate creates a Gate.
func NewGate() *Gate {
	return &Gate{}
}

// Discloses reports whether a userInfo field gated by kind may be
// populated: the plugin must declare the permission and the user must
// have accepted it.
func (g *Gate) Discloses(declared entity.PluginPermissions, accepted entity.PermissionSet, kind entity.PermissionKind) bool {
	return declared.Declared().Contains(kind) && accepted.Contains(kind)
}

// AuthorizeFriends checks the friends-list requirement. Unlike userInfo
// fields there is no partial disclosure: without READ_FRIENDS the whole
// call fails.
func (g *Gate) AuthorizeFriends(accepted entity.PermissionSet) error {
	if !accepted.Contains(entity.PermissionReadFriends) {
		return apperrors.ErrNotAllowed
	}
	return nil
}

// AuthorizeGiveRole checks a role grant. config and the giveable role
// list are community-controlled, so a plugin cannot widen its own grant
// scope. Predefined roles are never grantable; a role from another
// community is a malformed request.
func (g *Gate) AuthorizeGiveRole(config *entity.PluginConfig, role *entity.Role, communityID, roleID string) error {
	if config == nil || !config.AllowsRole(roleID) {
		return apperrors.ErrNotAllowed
	}
	if role == nil {
		return apperrors.ErrNotFound
	}
	if role.IsPredefined() {
		return apperrors.ErrNotAllowed
	}
	if role.CommunityID != communityID {
		return apperrors.ErrInvalidRequest
	}
	return nil
}
