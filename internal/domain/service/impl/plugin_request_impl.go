package impl

import (
	"context"

	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/domain/entity"
	"github.com/gatherhall/plugin-trust/internal/dto/request"
	"github.com/gatherhall/plugin-trust/internal/dto/response"
	"github.com/gatherhall/plugin-trust/internal/trust"
	apperrors "github.com/gatherhall/plugin-trust/pkg/errors"
)

// HandlePluginRequest runs a signed plugin request through the trust
// pipeline and answers with a response signed by the plugin's private
// key. The envelope's pluginId references the installation; the keypair
// and the user's accepted permissions belong to the plugin definition.
func (s *pluginService) HandlePluginRequest(ctx context.Context, userID string, req *request.PluginRequestRequest) (*response.SignedPluginResponse, error) {
	if userID == "" {
		return nil, apperrors.ErrLoginRequired
	}

	raw := []byte(req.Request)
	envelope, err := trust.ParseEnvelope(raw)
	if err != nil {
		return nil, err
	}

	installation, err := s.installationRepo.GetByID(ctx, envelope.PluginID)
	if err != nil {
		return nil, err
	}
	if installation == nil {
		return nil, apperrors.ErrNotFound
	}
	plugin, err := s.pluginRepo.GetByID(ctx, installation.PluginID)
	if err != nil {
		return nil, err
	}
	if plugin == nil {
		return nil, apperrors.ErrNotFound
	}

	if err := s.verifier.Authenticate(ctx, envelope, raw, req.Signature, plugin.PublicKey); err != nil {
		return nil, err
	}

	state, err := s.stateRepo.GetByUserAndPlugin(ctx, userID, plugin.ID)
	if err != nil {
		return nil, err
	}
	var accepted entity.PermissionSet
	if state != nil {
		accepted = state.AcceptedPermissions
	}

	var data any
	switch envelope.Data.Type {
	case trust.RequestUserInfo:
		data, err = s.buildUserInfo(ctx, userID, installation, plugin, accepted)
	case trust.RequestCommunityInfo:
		data, err = s.buildCommunityInfo(ctx, installation)
	case trust.RequestUserFriends:
		data, err = s.buildUserFriends(ctx, userID, accepted, envelope.Data.Limit, envelope.Data.Offset)
	case trust.ActionGiveRole:
		data, err = s.giveRole(ctx, installation, envelope.Data.UserID, envelope.Data.RoleID)
	default:
		return nil, apperrors.ErrInvalidRequest
	}
	if err != nil {
		return nil, err
	}

	signed, err := s.signer.Sign(plugin.PrivateKey, &trust.ResponseInner{
		Data:      data,
		PluginID:  envelope.PluginID,
		RequestID: envelope.RequestID,
	})
	if err != nil {
		return nil, err
	}
	return &response.SignedPluginResponse{
		Response:  signed.Response,
		Signature: signed.Signature,
	}, nil
}

func (s *pluginService) buildUserInfo(ctx context.Context, userID string, installation *entity.CommunityPlugin, plugin *entity.Plugin, accepted entity.PermissionSet) (*response.UserInfoData, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}
	roleIDs, err := s.communityRepo.ListUserRoleIDs(ctx, userID, installation.CommunityID)
	if err != nil {
		return nil, err
	}

	info := &response.UserInfoData{
		ID:       user.ID,
		Name:     displayName(user),
		ImageURL: s.urlSigner.ImageURL(userImageID(user)),
		Roles:    roleIDs,
		Premium:  user.PremiumTier(s.now()),
	}

	// The twitter block is present whenever disclosed, account or not;
	// lukso and farcaster require a linked account.
	if s.gate.Discloses(plugin.Permissions, accepted, entity.PermissionReadTwitter) {
		info.Twitter = &response.TwitterInfo{}
		if account := user.Account(entity.AccountTypeTwitter); account != nil {
			info.Twitter.Username = account.DisplayName
		}
	}
	if s.gate.Discloses(plugin.Permissions, accepted, entity.PermissionReadLukso) {
		if account := user.Account(entity.AccountTypeLukso); account != nil {
			info.Lukso = &response.LuksoInfo{
				Username: account.DisplayName,
				Address:  account.Address,
			}
		}
	}
	if s.gate.Discloses(plugin.Permissions, accepted, entity.PermissionReadFarcaster) {
		if account := user.Account(entity.AccountTypeFarcaster); account != nil {
			info.Farcaster = &response.FarcasterInfo{
				DisplayName: account.DisplayName,
				Username:    account.Username,
				FID:         account.FID,
			}
		}
	}
	if s.gate.Discloses(plugin.Permissions, accepted, entity.PermissionReadEmail) && user.EmailVerified {
		info.Email = user.Email
	}

	return info, nil
}

func (s *pluginService) buildCommunityInfo(ctx context.Context, installation *entity.CommunityPlugin) (*response.CommunityInfoData, error) {
	community, err := s.communityRepo.GetByID(ctx, installation.CommunityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, apperrors.ErrNotFound
	}
	roles, err := s.communityRepo.ListRoles(ctx, community.ID)
	if err != nil {
		return nil, err
	}

	roleInfos := make([]response.RoleInfo, 0, len(roles))
	for _, role := range roles {
		roleInfos = append(roleInfos, response.RoleInfo{
			ID:          role.ID,
			Title:       role.Title,
			Type:        string(role.Type),
			Permissions: role.Permissions,
		})
	}

	return &response.CommunityInfoData{
		ID:             community.ID,
		Title:          community.Title,
		URL:            community.URL,
		SmallLogoURL:   s.urlSigner.ImageURL(community.LogoSmallID),
		LargeLogoURL:   s.urlSigner.ImageURL(community.LogoLargeID),
		HeaderImageURL: s.urlSigner.ImageURL(community.HeaderImageID),
		Official:       community.Official,
		Premium:        community.PremiumName(s.now()),
		Roles:          roleInfos,
	}, nil
}

func (s *pluginService) buildUserFriends(ctx context.Context, userID string, accepted entity.PermissionSet, limit, offset int) (*response.FriendsData, error) {
	if err := s.gate.AuthorizeFriends(accepted); err != nil {
		return nil, err
	}
	friends, err := s.userRepo.ListFriends(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	infos := make([]response.FriendInfo, 0, len(friends))
	for _, friend := range friends {
		infos = append(infos, response.FriendInfo{
			ID:       friend.ID,
			Name:     friend.Name,
			ImageURL: s.urlSigner.ImageURL(friend.ImageID),
		})
	}
	return &response.FriendsData{Friends: infos}, nil
}

func (s *pluginService) giveRole(ctx context.Context, installation *entity.CommunityPlugin, targetUserID, roleID string) (*response.GiveRoleResult, error) {
	role, err := s.communityRepo.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeGiveRole(installation.Config, role, installation.CommunityID, roleID); err != nil {
		return nil, err
	}
	if err := s.communityRepo.AssignRole(ctx, installation.CommunityID, roleID, targetUserID); err != nil {
		s.logger.Warn("plugin role grant failed",
			zap.String("roleId", roleID),
			zap.String("userId", targetUserID),
			zap.Error(err))
		return nil, apperrors.ErrInvalidRequest.WithError(err)
	}
	s.logger.Info("plugin granted role",
		zap.String("installationId", installation.ID),
		zap.String("roleId", roleID),
		zap.String("userId", targetUserID))
	return &response.GiveRoleResult{Success: true}, nil
}

func displayName(user *entity.User) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Username
}

// userImageID picks the image of the user's display account, falling
// back to the platform account.
func userImageID(user *entity.User) string {
	if account := user.Account(user.DisplayAccount); account != nil && account.ImageID != "" {
		return account.ImageID
	}
	if account := user.Account(entity.AccountTypeCG); account != nil {
		return account.ImageID
	}
	return ""
}
