package response

import "github.com/gatherhall/plugin-trust/internal/domain/entity"

// CreatePluginResponse is the one place the private key leaves the
// server; the plugin operator must store it.
type CreatePluginResponse struct {
	ID         string `json:"id"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// OkResponse acknowledges a side-effect-only operation
type OkResponse struct {
	OK bool `json:"ok"`
}

// SignedPluginResponse carries a serialized, signed plugin response
type SignedPluginResponse struct {
	Response  string `json:"response"`
	Signature string `json:"signature"`
}

// AppstorePluginResponse is one public catalog entry
type AppstorePluginResponse struct {
	PluginID         string                   `json:"pluginId"`
	OwnerCommunityID string                   `json:"ownerCommunityId"`
	Name             string                   `json:"name"`
	URL              string                   `json:"url"`
	Description      string                   `json:"description"`
	Permissions      entity.PluginPermissions `json:"permissions"`
	ImageURL         string                   `json:"imageUrl"`
	Tags             []string                 `json:"tags"`
	CommunityCount   int64                    `json:"communityCount"`
	AppstoreEnabled  bool                     `json:"appstoreEnabled"`
}

// AppstorePluginsResponse is a page of catalog entries
type AppstorePluginsResponse struct {
	Plugins []*AppstorePluginResponse `json:"plugins"`
}

// PluginCommunitiesResponse lists the communities installing a plugin
type PluginCommunitiesResponse struct {
	CommunityIDs []string `json:"communityIds"`
}

// TwitterInfo is the twitter block of a userInfo response. It is
// present whenever the permission is granted, even when no twitter
// account is linked.
type TwitterInfo struct {
	Username string `json:"username"`
}

// LuksoInfo is the lukso block of a userInfo response, present only
// when a lukso account is linked.
type LuksoInfo struct {
	Username string `json:"username"`
	Address  string `json:"address"`
}

// FarcasterInfo is the farcaster block of a userInfo response, present
// only when a farcaster account is linked.
type FarcasterInfo struct {
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	FID         int64  `json:"fid"`
}

// UserInfoData is the signed inner payload of a userInfo request. The
// permission-gated blocks are omitted, not emptied, when undisclosed.
type UserInfoData struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	ImageURL  string         `json:"imageUrl"`
	Roles     []string       `json:"roles"`
	Premium   string         `json:"premium"`
	Email     string         `json:"email,omitempty"`
	Twitter   *TwitterInfo   `json:"twitter,omitempty"`
	Lukso     *LuksoInfo     `json:"lukso,omitempty"`
	Farcaster *FarcasterInfo `json:"farcaster,omitempty"`
}

// RoleInfo is one community role in a communityInfo response.
type RoleInfo struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Permissions []string `json:"permissions"`
}

// CommunityInfoData is the signed inner payload of a communityInfo
// request.
type CommunityInfoData struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	URL            string     `json:"url"`
	SmallLogoURL   string     `json:"smallLogoUrl"`
	LargeLogoURL   string     `json:"largeLogoUrl"`
	HeaderImageURL string     `json:"headerImageUrl"`
	Official       bool       `json:"official"`
	Premium        string     `json:"premium"`
	Roles          []RoleInfo `json:"roles"`
}

// FriendInfo is one friend in a userFriends response.
type FriendInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// FriendsData is the signed inner payload of a userFriends request.
type FriendsData struct {
	Friends []FriendInfo `json:"friends"`
}

// GiveRoleResult is the signed inner payload of a giveRole action.
type GiveRoleResult struct {
	Success bool `json:"success"`
}

// CommunityPluginView is one installation as shown to a community
// member, including that member's own accepted permissions.
type CommunityPluginView struct {
	ID                  string                   `json:"id"`
	CommunityID         string                   `json:"communityId"`
	PluginID            string                   `json:"pluginId"`
	Name                string                   `json:"name"`
	URL                 string                   `json:"url"`
	Permissions         entity.PluginPermissions `json:"permissions"`
	Clonable            bool                     `json:"clonable"`
	AcceptedPermissions entity.PermissionSet     `json:"acceptedPermissions"`
}
