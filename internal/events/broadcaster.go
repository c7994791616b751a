package events

import "context"

// Target selects the recipients of an event. The selector sets are
// unioned: a client matches if it matches any of them.
type Target struct {
	UserIDs      []string
	RoleIDs      []string
	CommunityIDs []string
}

// Broadcaster delivers events to connected clients. Exclude removes
// clients from the target set; it is how admin-targeted full events and
// community-targeted redacted events stay disjoint.
type Broadcaster interface {
	Emit(ctx context.Context, event any, target Target) error
	EmitExcluding(ctx context.Context, event any, target Target, exclude Target) error
}

// EmitTiered sends a plugin event in two tiers: the full event to the
// community's admin role, and a config-redacted copy to the rest of the
// community.
func EmitTiered(ctx context.Context, b Broadcaster, event *PluginEvent, adminRoleID, communityID string) error {
	if err := b.Emit(ctx, event, Target{RoleIDs: []string{adminRoleID}}); err != nil {
		return err
	}
	return b.EmitExcluding(ctx, event.RedactForNonAdmins(),
		Target{CommunityIDs: []string{communityID}},
		Target{RoleIDs: []string{adminRoleID}})
}
