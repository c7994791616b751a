package di

import (
	"go.uber.org/fx"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/repository"
	"github.com/gatherhall/plugin-trust/internal/domain/repository/impl"
)

// RepositoryModule provides repository dependencies. Repositories
// delegate to the DAO layer for database operations.
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		providePluginRepository,
		provideCommunityPluginRepository,
		provideUserPluginStateRepository,
		provideCommunityRepository,
		provideUserRepository,
		provideReportRepository,
	),
)

func providePluginRepository(pluginDAO dao.PluginDAO) repository.PluginRepository {
	return impl.NewPluginRepository(pluginDAO)
}

func provideCommunityPluginRepository(installationDAO dao.CommunityPluginDAO) repository.CommunityPluginRepository {
	return impl.NewCommunityPluginRepository(installationDAO)
}

func provideUserPluginStateRepository(stateDAO dao.UserPluginStateDAO) repository.UserPluginStateRepository {
	return impl.NewUserPluginStateRepository(stateDAO)
}

func provideCommunityRepository(communityDAO dao.CommunityDAO) repository.CommunityRepository {
	return impl.NewCommunityRepository(communityDAO)
}

func provideUserRepository(userDAO dao.UserDAO) repository.UserRepository {
	return impl.NewUserRepository(userDAO)
}

func provideReportRepository(reportDAO dao.ReportDAO) repository.ReportRepository {
	return impl.NewReportRepository(reportDAO)
}
