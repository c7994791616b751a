package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	httpctrl "github.com/gatherhall/plugin-trust/internal/controller/http"
	"github.com/gatherhall/plugin-trust/internal/domain/service"
	"github.com/gatherhall/plugin-trust/internal/middleware"
	"github.com/gatherhall/plugin-trust/internal/observability"
	"github.com/gatherhall/plugin-trust/internal/security"
)

// ControllerModule provides HTTP controller dependencies
var ControllerModule = fx.Module("controller",
	fx.Provide(providePluginController),
)

func providePluginController(
	pluginService service.PluginService,
	securityService *security.SecurityService,
	authMiddleware *middleware.AuthMiddleware,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) *httpctrl.PluginController {
	return httpctrl.NewPluginController(pluginService, securityService, authMiddleware, metrics, logger)
}
