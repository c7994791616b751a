package impl

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
	"github.com/gatherhall/plugin-trust/internal/domain/repository"
	"github.com/gatherhall/plugin-trust/internal/domain/service"
	"github.com/gatherhall/plugin-trust/internal/dto/request"
	"github.com/gatherhall/plugin-trust/internal/dto/response"
	"github.com/gatherhall/plugin-trust/internal/events"
	"github.com/gatherhall/plugin-trust/internal/security"
	"github.com/gatherhall/plugin-trust/internal/trust"
	apperrors "github.com/gatherhall/plugin-trust/pkg/errors"
)

// pluginService implements service.PluginService
type pluginService struct {
	pluginRepo       repository.PluginRepository
	installationRepo repository.CommunityPluginRepository
	stateRepo        repository.UserPluginStateRepository
	communityRepo    repository.CommunityRepository
	userRepo         repository.UserRepository
	reportRepo       repository.ReportRepository
	verifier         *trust.Verifier
	signer           *trust.Signer
	gate             *trust.Gate
	issuer           *security.KeyIssuer
	urlSigner        *security.FileURLSigner
	broadcaster      events.Broadcaster
	trustCfg         *config.TrustConfig
	logger           *zap.Logger
	now              func() time.Time
}

// NewPluginService creates a new PluginService instance
func NewPluginService(
	pluginRepo repository.PluginRepository,
	installationRepo repository.CommunityPluginRepository,
	stateRepo repository.UserPluginStateRepository,
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	reportRepo repository.ReportRepository,
	verifier *trust.Verifier,
	signer *trust.Signer,
	gate *trust.Gate,
	issuer *security.KeyIssuer,
	urlSigner *security.FileURLSigner,
	broadcaster events.Broadcaster,
	trustCfg *config.TrustConfig,
	logger *zap.Logger,
) service.PluginService {
	return &pluginService{
		pluginRepo:       pluginRepo,
		installationRepo: installationRepo,
		stateRepo:        stateRepo,
		communityRepo:    communityRepo,
		userRepo:         userRepo,
		reportRepo:       reportRepo,
		verifier:         verifier,
		signer:           signer,
		gate:             gate,
		issuer:           issuer,
		urlSigner:        urlSigner,
		broadcaster:      broadcaster,
		trustCfg:         trustCfg,
		logger:           logger,
		now:              time.Now,
	}
}

// requireAdmin checks that the caller holds the community's predefined
// Admin role and returns that role.
func (s *pluginService) requireAdmin(ctx context.Context, userID, communityID string) (*entity.Role, error) {
	if userID == "" {
		return nil, apperrors.ErrLoginRequired
	}
	adminRole, err := s.communityRepo.GetAdminRole(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if adminRole == nil {
		return nil, apperrors.ErrNotAllowed
	}
	isAdmin, err := s.communityRepo.UserHasRole(ctx, userID, adminRole.ID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperrors.ErrNotAllowed
	}
	return adminRole, nil
}

func (s *pluginService) checkPluginLimit(ctx context.Context, communityID string) error {
	count, err := s.installationRepo.CountByCommunity(ctx, communityID)
	if err != nil {
		return err
	}
	if count >= int64(s.trustCfg.PluginLimit) {
		return apperrors.ErrPluginLimitExceeded
	}
	return nil
}

func (s *pluginService) CreatePlugin(ctx context.Context, userID string, req *request.CreatePluginRequest) (*response.CreatePluginResponse, error) {
	adminRole, err := s.requireAdmin(ctx, userID, req.CommunityID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPluginLimit(ctx, req.CommunityID); err != nil {
		return nil, err
	}

	keyPair, err := s.issuer.Generate()
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}

	plugin := &entity.Plugin{
		ID:                    uuid.NewString(),
		OwnerCommunityID:      req.CommunityID,
		URL:                   req.PluginData.URL,
		PrivateKey:            keyPair.PrivateKey,
		PublicKey:             keyPair.PublicKey,
		Permissions:           req.PluginData.Permissions,
		Clonable:              req.PluginData.Clonable,
		AppstoreEnabled:       req.PluginData.AppstoreEnabled,
		Tags:                  req.PluginData.Tags,
		Description:           req.PluginData.Description,
		ImageID:               req.PluginData.ImageID,
		RequiresIsolationMode: req.PluginData.RequiresIsolationMode,
	}
	installation := &entity.CommunityPlugin{
		ID:          uuid.NewString(),
		CommunityID: req.CommunityID,
		PluginID:    plugin.ID,
		Name:        req.Name,
		Config:      req.Config,
	}

	if err := s.pluginRepo.CreateWithInstallation(ctx, plugin, installation); err != nil {
		return nil, err
	}

	s.logger.Info("plugin created",
		zap.String("pluginId", plugin.ID),
		zap.String("communityId", req.CommunityID))

	flagged := false
	event := events.NewPluginEvent(events.ActionNew, events.PluginEventData{
		ID:               installation.ID,
		CommunityID:      installation.CommunityID,
		Name:             installation.Name,
		Config:           &events.NullableConfig{Config: installation.Config},
		PluginID:         plugin.ID,
		OwnerCommunityID: plugin.OwnerCommunityID,
		URL:              plugin.URL,
		Description:      plugin.Description,
		ImageID:          plugin.ImageID,
		Permissions:      &plugin.Permissions,
		Clonable:         &plugin.Clonable,
		ReportFlagged:    &flagged,
	})
	if err := events.EmitTiered(ctx, s.broadcaster, event, adminRole.ID, req.CommunityID); err != nil {
		return nil, err
	}

	return &response.CreatePluginResponse{
		ID:         installation.ID,
		PublicKey:  keyPair.PublicKey,
		PrivateKey: keyPair.PrivateKey,
	}, nil
}

func (s *pluginService) ClonePlugin(ctx context.Context, userID string, req *request.ClonePluginRequest) (*response.OkResponse, error) {
	adminRole, err := s.requireAdmin(ctx, userID, req.TargetCommunityID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPluginLimit(ctx, req.TargetCommunityID); err != nil {
		return nil, err
	}

	plugin, err := s.pluginRepo.GetByID(ctx, req.PluginID)
	if err != nil {
		return nil, err
	}
	if plugin == nil {
		return nil, apperrors.ErrNotFound
	}
	if !plugin.Clonable {
		return nil, apperrors.ErrNotAllowed
	}

	existing, err := s.installationRepo.GetByCommunityAndPlugin(ctx, req.TargetCommunityID, plugin.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrInvalidRequest.WithMessage("plugin already installed")
	}

	name := req.Name
	if name == "" {
		ownerInstall, err := s.installationRepo.GetByCommunityAndPlugin(ctx, plugin.OwnerCommunityID, plugin.ID)
		if err != nil {
			return nil, err
		}
		if ownerInstall != nil {
			name = ownerInstall.Name
		}
	}

	installation := &entity.CommunityPlugin{
		ID:          uuid.NewString(),
		CommunityID: req.TargetCommunityID,
		PluginID:    plugin.ID,
		Name:        name,
	}
	if err := s.installationRepo.Create(ctx, installation); err != nil {
		return nil, err
	}

	s.logger.Info("plugin cloned",
		zap.String("pluginId", plugin.ID),
		zap.String("targetCommunityId", req.TargetCommunityID))

	// Unlike a freshly created plugin, a cloned one may already carry
	// unresolved reports.
	reports, err := s.reportRepo.CountUnresolved(ctx, plugin.ID)
	if err != nil {
		return nil, err
	}
	flagged := reports >= int64(s.trustCfg.MinReportsToFlag)

	event := events.NewPluginEvent(events.ActionNew, events.PluginEventData{
		ID:               installation.ID,
		CommunityID:      installation.CommunityID,
		Name:             installation.Name,
		Config:           &events.NullableConfig{},
		PluginID:         plugin.ID,
		OwnerCommunityID: plugin.OwnerCommunityID,
		URL:              plugin.URL,
		Description:      plugin.Description,
		ImageID:          plugin.ImageID,
		Permissions:      &plugin.Permissions,
		Clonable:         &plugin.Clonable,
		ReportFlagged:    &flagged,
	})
	if err := events.EmitTiered(ctx, s.broadcaster, event, adminRole.ID, req.TargetCommunityID); err != nil {
		return nil, err
	}

	return &response.OkResponse{OK: true}, nil
}

func (s *pluginService) UpdatePlugin(ctx context.Context, userID string, req *request.UpdatePluginRequest) (*response.OkResponse, error) {
	adminRole, err := s.requireAdmin(ctx, userID, req.CommunityID)
	if err != nil {
		return nil, err
	}

	installation, err := s.installationRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if installation == nil || installation.CommunityID != req.CommunityID {
		return nil, apperrors.ErrNotFound
	}
	plugin, err := s.pluginRepo.GetByID(ctx, installation.PluginID)
	if err != nil {
		return nil, err
	}
	if plugin == nil {
		return nil, apperrors.ErrNotFound
	}

	// Shared content is only editable through the owner installation
	if req.PluginData != nil && plugin.OwnerCommunityID != req.CommunityID {
		return nil, apperrors.ErrNotAllowed
	}
	urlChanged := req.PluginData != nil && plugin.URL != req.PluginData.URL

	installation.Name = req.Name
	installation.Config = req.Config
	if err := s.installationRepo.Update(ctx, installation); err != nil {
		return nil, err
	}

	if req.PluginData != nil {
		plugin.URL = req.PluginData.URL
		plugin.Permissions = req.PluginData.Permissions
		plugin.Clonable = req.PluginData.Clonable
		plugin.AppstoreEnabled = req.PluginData.AppstoreEnabled
		plugin.Tags = req.PluginData.Tags
		plugin.Description = req.PluginData.Description
		plugin.ImageID = req.PluginData.ImageID
		plugin.RequiresIsolationMode = req.PluginData.RequiresIsolationMode
		if err := s.pluginRepo.UpdateContent(ctx, plugin); err != nil {
			return nil, err
		}

		// A new URL means new code; every user re-decides their trust
		if urlChanged {
			if err := s.stateRepo.ResetByPlugin(ctx, plugin.ID); err != nil {
				return nil, err
			}
			s.logger.Info("plugin url changed, accepted permissions reset",
				zap.String("pluginId", plugin.ID))
		}
	}

	event := events.NewPluginEvent(events.ActionUpdate, events.PluginEventData{
		ID:          installation.ID,
		CommunityID: installation.CommunityID,
		Name:        installation.Name,
		Config:      &events.NullableConfig{Config: installation.Config},
	})
	if err := events.EmitTiered(ctx, s.broadcaster, event, adminRole.ID, req.CommunityID); err != nil {
		return nil, err
	}

	if req.PluginData != nil {
		data := events.PluginEventData{
			PluginID:    plugin.ID,
			URL:         plugin.URL,
			Description: plugin.Description,
			ImageID:     plugin.ImageID,
			Permissions: &plugin.Permissions,
			Clonable:    &plugin.Clonable,
		}
		if urlChanged {
			data.AcceptedPermissions = &entity.PermissionSet{}
		}
		communityIDs, err := s.installationRepo.ListCommunityIDs(ctx, plugin.ID, -1, 0)
		if err != nil {
			return nil, err
		}
		dataUpdate := events.NewPluginEvent(events.ActionDataUpdate, data)
		if err := s.broadcaster.Emit(ctx, dataUpdate, events.Target{CommunityIDs: communityIDs}); err != nil {
			return nil, err
		}
	}

	return &response.OkResponse{OK: true}, nil
}

func (s *pluginService) DeletePlugin(ctx context.Context, userID string, req *request.DeletePluginRequest) (*response.OkResponse, error) {
	installation, err := s.installationRepo.GetByID(ctx, req.ID)
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

	if _, err := s.requireAdmin(ctx, userID, installation.CommunityID); err != nil {
		return nil, err
	}

	// The owner community deletes the plugin itself, everywhere; any
	// other community just uninstalls its own copy.
	if plugin.OwnerCommunityID == installation.CommunityID {
		communityIDs, err := s.pluginRepo.DeleteCascade(ctx, plugin.ID)
		if err != nil {
			return nil, err
		}
		s.logger.Info("plugin deleted",
			zap.String("pluginId", plugin.ID),
			zap.Int("communities", len(communityIDs)))

		event := events.NewPluginEvent(events.ActionDataDelete, events.PluginEventData{
			PluginID: plugin.ID,
		})
		if err := s.broadcaster.Emit(ctx, event, events.Target{CommunityIDs: communityIDs}); err != nil {
			return nil, err
		}
	} else {
		if err := s.installationRepo.Delete(ctx, installation.ID); err != nil {
			return nil, err
		}
		event := events.NewPluginEvent(events.ActionDelete, events.PluginEventData{
			ID:          installation.ID,
			CommunityID: installation.CommunityID,
		})
		if err := s.broadcaster.Emit(ctx, event, events.Target{CommunityIDs: []string{installation.CommunityID}}); err != nil {
			return nil, err
		}
	}

	return &response.OkResponse{OK: true}, nil
}

func (s *pluginService) AcceptPluginPermissions(ctx context.Context, userID string, req *request.AcceptPluginPermissionsRequest) (*response.OkResponse, error) {
	if userID == "" {
		return nil, apperrors.ErrLoginRequired
	}
	installation, err := s.installationRepo.GetByID(ctx, req.PluginID)
	if err != nil {
		return nil, err
	}
	if installation == nil {
		return nil, apperrors.ErrNotFound
	}

	accepted := make(entity.PermissionSet, 0, len(req.Permissions)+1)
	for _, name := range req.Permissions {
		kind := entity.PermissionKind(name)
		if !entity.KnownPermission(kind) {
			return nil, apperrors.ErrInvalidRequest.WithMessage("unknown permission: " + name)
		}
		if !accepted.Contains(kind) {
			accepted = append(accepted, kind)
		}
	}
	if !accepted.Contains(entity.PermissionUserAccepted) {
		accepted = append(accepted, entity.PermissionUserAccepted)
	}

	if err := s.stateRepo.Save(ctx, &entity.UserPluginState{
		UserID:              userID,
		PluginID:            installation.PluginID,
		AcceptedPermissions: accepted,
	}); err != nil {
		return nil, err
	}

	plugins, err := s.communityPluginViews(ctx, userID, installation.CommunityID)
	if err != nil {
		return nil, err
	}
	event := events.NewCommunityUpdateEvent(events.CommunityEventData{
		ID:        installation.CommunityID,
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
		Plugins:   plugins,
	})
	// Only the deciding user sees their refreshed permission state
	if err := s.broadcaster.Emit(ctx, event, events.Target{UserIDs: []string{userID}}); err != nil {
		return nil, err
	}

	return &response.OkResponse{OK: true}, nil
}

// communityPluginViews assembles the community's installation list as
// seen by one user, including that user's accepted permissions.
func (s *pluginService) communityPluginViews(ctx context.Context, userID, communityID string) ([]*response.CommunityPluginView, error) {
	installations, err := s.installationRepo.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}
	views := make([]*response.CommunityPluginView, 0, len(installations))
	for _, installation := range installations {
		plugin, err := s.pluginRepo.GetByID(ctx, installation.PluginID)
		if err != nil {
			return nil, err
		}
		if plugin == nil {
			continue
		}
		view := &response.CommunityPluginView{
			ID:          installation.ID,
			CommunityID: installation.CommunityID,
			PluginID:    plugin.ID,
			Name:        installation.Name,
			URL:         plugin.URL,
			Permissions: plugin.Permissions,
			Clonable:    plugin.Clonable,
		}
		state, err := s.stateRepo.GetByUserAndPlugin(ctx, userID, plugin.ID)
		if err != nil {
			return nil, err
		}
		if state != nil {
			view.AcceptedPermissions = state.AcceptedPermissions
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *pluginService) GetAppstorePlugin(ctx context.Context, req *request.GetAppstorePluginRequest) (*response.AppstorePluginResponse, error) {
	row, err := s.pluginRepo.GetAppstorePlugin(ctx, req.PluginID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperrors.ErrNotFound
	}
	return s.toAppstoreResponse(row), nil
}

func (s *pluginService) GetAppstorePlugins(ctx context.Context, req *request.GetAppstorePluginsRequest) (*response.AppstorePluginsResponse, error) {
	rows, err := s.pluginRepo.ListAppstorePlugins(ctx, dao.AppstoreQuery{
		Search:           req.Search,
		Tags:             req.Tags,
		Limit:            req.Limit,
		Offset:           req.Offset,
		MinReportsToFlag: s.trustCfg.MinReportsToFlag,
	})
	if err != nil {
		return nil, err
	}
	plugins := make([]*response.AppstorePluginResponse, 0, len(rows))
	for _, row := range rows {
		plugins = append(plugins, s.toAppstoreResponse(row))
	}
	return &response.AppstorePluginsResponse{Plugins: plugins}, nil
}

func (s *pluginService) toAppstoreResponse(row *dao.AppstorePluginRow) *response.AppstorePluginResponse {
	return &response.AppstorePluginResponse{
		PluginID:         row.PluginID,
		OwnerCommunityID: row.OwnerCommunityID,
		Name:             row.Name,
		URL:              row.URL,
		Description:      row.Description,
		Permissions:      row.Permissions,
		ImageURL:         s.urlSigner.ImageURL(row.ImageID),
		Tags:             row.Tags,
		CommunityCount:   row.CommunityCount,
		AppstoreEnabled:  row.AppstoreEnabled,
	}
}

func (s *pluginService) GetPluginCommunities(ctx context.Context, req *request.GetPluginCommunitiesRequest) (*response.PluginCommunitiesResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = -1
	}
	communityIDs, err := s.installationRepo.ListCommunityIDs(ctx, req.PluginID, limit, req.Offset)
	if err != nil {
		return nil, err
	}
	return &response.PluginCommunitiesResponse{CommunityIDs: communityIDs}, nil
}
