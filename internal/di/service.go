package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
	"github.com/gatherhall/plugin-trust/internal/domain/repository"
	"github.com/gatherhall/plugin-trust/internal/domain/service"
	serviceimpl "github.com/gatherhall/plugin-trust/internal/domain/service/impl"
	"github.com/gatherhall/plugin-trust/internal/events"
	"github.com/gatherhall/plugin-trust/internal/security"
	"github.com/gatherhall/plugin-trust/internal/trust"
)

// ServiceModule provides service layer dependencies
var ServiceModule = fx.Module("service",
	fx.Provide(providePluginService),
)

func providePluginService(
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
	return serviceimpl.NewPluginService(
		pluginRepo,
		installationRepo,
		stateRepo,
		communityRepo,
		userRepo,
		reportRepo,
		verifier,
		signer,
		gate,
		issuer,
		urlSigner,
		broadcaster,
		trustCfg,
		logger,
	)
}
