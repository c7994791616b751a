package di

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	gormdao "github.com/gatherhall/plugin-trust/internal/domain/dao/gorm"
)

// DAOModule provides the GORM-backed data access layer.
var DAOModule = fx.Module("dao",
	fx.Provide(
		providePluginDAO,
		provideCommunityPluginDAO,
		provideUserPluginStateDAO,
		provideCommunityDAO,
		provideUserDAO,
		provideReportDAO,
	),
)

func providePluginDAO(db *gorm.DB) dao.PluginDAO {
	return gormdao.NewPluginDAO(db)
}

func provideCommunityPluginDAO(db *gorm.DB) dao.CommunityPluginDAO {
	return gormdao.NewCommunityPluginDAO(db)
}

func provideUserPluginStateDAO(db *gorm.DB) dao.UserPluginStateDAO {
	return gormdao.NewUserPluginStateDAO(db)
}

func provideCommunityDAO(db *gorm.DB) dao.CommunityDAO {
	return gormdao.NewCommunityDAO(db)
}

func provideUserDAO(db *gorm.DB) dao.UserDAO {
	return gormdao.NewUserDAO(db)
}

func provideReportDAO(db *gorm.DB) dao.ReportDAO {
	return gormdao.NewReportDAO(db)
}
