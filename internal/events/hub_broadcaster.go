package events

import "context"

// hubBroadcaster implements Broadcaster on top of the in-process hub.
type hubBroadcaster struct {
	hub *Hub
}

// NewHubBroadcaster creates a Broadcaster delivering through the hub.
func NewHubBroadcaster(hub *Hub) Broadcaster {
	return &hubBroadcaster{hub: hub}
}

func (b *hubBroadcaster) Emit(_ context.Context, event any, target Target) error {
	b.hub.Broadcast(NewEventMessage(event), targetRooms(target), target.UserIDs, nil)
	return nil
}

func (b *hubBroadcaster) EmitExcluding(_ context.Context, event any, target Target, exclude Target) error {
	b.hub.Broadcast(NewEventMessage(event), targetRooms(target), target.UserIDs, targetRooms(exclude))
	return nil
}

func targetRooms(target Target) []string {
	rooms := make([]string, 0, len(target.RoleIDs)+len(target.CommunityIDs))
	for _, roleID := range target.RoleIDs {
		rooms = append(rooms, RoleRoom(roleID))
	}
	for _, communityID := range target.CommunityIDs {
		rooms = append(rooms, CommunityRoom(communityID))
	}
	return rooms
}
