package events

import (
	"context"
	"strings"

	"github.com/gatherhall/plugin-trust/internal/domain/repository"
)

// membershipAuthorizer validates room subscriptions against community
// and role membership.
type membershipAuthorizer struct {
	communities repository.CommunityRepository
}

// NewMembershipAuthorizer creates a RoomAuthorizer backed by the
// community repository.
func NewMembershipAuthorizer(communities repository.CommunityRepository) RoomAuthorizer {
	return &membershipAuthorizer{communities: communities}
}

func (a *membershipAuthorizer) CanJoin(ctx context.Context, userID, room string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if roleID, ok := strings.CutPrefix(room, "role:"); ok {
		return a.communities.UserHasRole(ctx, userID, roleID)
	}
	if communityID, ok := strings.CutPrefix(room, "community:"); ok {
		roleIDs, err := a.communities.ListUserRoleIDs(ctx, userID, communityID)
		if err != nil {
			return false, err
		}
		return len(roleIDs) > 0, nil
	}
	return false, nil
}
