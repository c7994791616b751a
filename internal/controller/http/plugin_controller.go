// Package http contains the gin HTTP controllers. The plugin API is
// RPC-style: every operation is a POST with a JSON body, mirroring the
// client SDK's call shapes.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/domain/service"
	"github.com/gatherhall/plugin-trust/internal/dto/request"
	"github.com/gatherhall/plugin-trust/internal/dto/response"
	"github.com/gatherhall/plugin-trust/internal/middleware"
	"github.com/gatherhall/plugin-trust/internal/observability"
	"github.com/gatherhall/plugin-trust/internal/security"
	apperrors "github.com/gatherhall/plugin-trust/pkg/errors"
)

const msgValidationFailed = "validation failed"

// PluginController handles the plugin API endpoints
type PluginController struct {
	pluginService   service.PluginService
	securityService *security.SecurityService
	authMiddleware  *middleware.AuthMiddleware
	metrics         *observability.MetricsProvider
	logger          *zap.Logger
}

// NewPluginController creates a new PluginController instance
func NewPluginController(
	pluginService service.PluginService,
	securityService *security.SecurityService,
	authMiddleware *middleware.AuthMiddleware,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) *PluginController {
	return &PluginController{
		pluginService:   pluginService,
		securityService: securityService,
		authMiddleware:  authMiddleware,
		metrics:         metrics,
		logger:          logger,
	}
}

// RegisterRoutes registers the plugin routes
func (c *PluginController) RegisterRoutes(router *gin.RouterGroup) {
	plugins := router.Group("/plugins")
	{
		// Appstore browsing is public, but a caller presenting a valid
		// token still gets its identity attached.
		public := plugins.Group("", c.authMiddleware.OptionalAuth())
		{
			public.POST("/getAppstorePlugin", c.GetAppstorePlugin)
			public.POST("/getAppstorePlugins", c.GetAppstorePlugins)
			public.POST("/getPluginCommunities", c.GetPluginCommunities)
		}

		authed := plugins.Group("", c.authMiddleware.Authenticate())
		{
			authed.POST("/createPlugin", c.CreatePlugin)
			authed.POST("/clonePlugin", c.ClonePlugin)
			authed.POST("/updatePlugin", c.UpdatePlugin)
			authed.POST("/deletePlugin", c.DeletePlugin)
			authed.POST("/pluginRequest", c.PluginRequest)
			authed.POST("/acceptPluginPermissions", c.AcceptPluginPermissions)
		}
	}
}

// abortWithError maps an application error to its HTTP status and
// stable protocol code.
func (c *PluginController) abortWithError(ctx *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.ErrInternalError
	}
	if appErr.Status >= http.StatusInternalServerError {
		c.logger.Error("plugin api error",
			zap.String("path", ctx.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Error(err))
	}
	ctx.JSON(appErr.Status, response.NewError[any](appErr.Code, appErr.Message))
}

// CreatePlugin handles plugin creation
// @Summary Create a plugin with a fresh keypair
// @Tags Plugins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreatePluginRequest true "Create plugin request"
// @Success 200 {object} response.ApiResponse[response.CreatePluginResponse]
// @Failure 403 {object} response.ApiResponse[any]
// @Router /api/v1/plugins/createPlugin [post]
func (c *PluginController) CreatePlugin(ctx *gin.Context) {
	var req request.CreatePluginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.NewError[any](apperrors.CodeInvalidRequest, msgValidationFailed))
		return
	}

	resp, err := c.pluginService.CreatePlugin(ctx.Request.Context(), c.securityService.GetCurrentUserID(ctx), &req)
	if err != nil {
		c.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(resp))
}

// ClonePlugin handles installing a clonable plugin into another community
// @Summary Clone a plugin into a community
// @Tags Plugins
// @Security BearerAuth
// @Router /api/v1/plugins/clonePlugin [post]
func (c *PluginController) ClonePlugin(ctx *gin.Context) {
	var req request.ClonePluginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.NewError[any](apperrors.CodeInvalidRequest, msgValidationFailed))
		return
	}

	resp, err := c.pluginService.ClonePlugin(ctx.Request.Context(), c.securityService.GetCurrentUserID(ctx), &req)
	if err != nil {
		c.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(resp))
}

// UpdatePlugin handles installation and plugin content updates
// @Summary Update a plugin installation
// @Tags Plugins
// @Security BearerAuth
// @Router /api/v1/plugins/updatePlugin [post]
func (c *PluginController) UpdatePlugin(ctx *gin.Context) {
	var req request.UpdatePluginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.NewError[any](apperrors.CodeInvalidRequest, msgValidationFailed))
		return
	}

	resp, err := c.pluginService.UpdatePlugin(ctx.Request.Context(), c.securityService.GetCurrentUserID(ctx), &req)
	if err != nil {
		c.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(resp))
}

// DeletePlugin handles plugin removal
// @Summary Delete a plugin installation
// @Tags Plugins
// @Security BearerAuth
// @Router /api/v1/plugins/deletePlugin [post]
func (c *PluginController) DeletePlugin(ctx *gin.Context) {
	var req request.DeletePluginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.NewError[any](apperrors.CodeInvalidRequest, msgValidationFailed))
		return
	}

	resp, err := c.pluginService.DeletePlugin(ctx.Request.Context(), c.securityService.GetCurrentUserID(ctx), &req)
	if err != nil {
		c.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(resp))
}

// PluginRequest handles a signed plugin request
// @Summary Verify and answer a signed plugin request
// @Tags Plugins
// @Security BearerAuth
// @Param request body request.PluginRequestRequest true "Signed request"
// @Success 200 {object} response.ApiResponse[response.SignedPluginResponse]
// @Failure 400 {object} response.ApiResponse[any]
// @Failure 409 {object} response.ApiResponse[any]
// @Router /api/v1/plugins/pluginRequest [post]
func (c *PluginController) PluginRequest(ctx *gin.Context) {
	var req request.PluginRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.NewError[any](apperrors.CodeInvalidRequest, msgValidationFailed))
		return
	}

	start := time.Now()
	resp, err := c.pluginService.HandlePluginRequest(ctx.Request.Context(), c.securityService.GetCurrentUserID(ctx), &req)
	c.metrics.RecordSignedRequest(ctx.Request.Context(), peekRequestType(req.Request), signedOutcome(err), time.Since(start))
	if err != nil {
		c.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(resp))
}

// peekRequestType reads the inner request type for metric labels without
// validating the envelope. Malformed bodies are labelled "unknown".
func peekRequestType(raw string) string {
	var peek struct {
		Data struct {
			Type string `json:"type"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(raw), &peek); err != nil || peek.Data.Type == "" {
		return "unknown"
	}
	return peek.Data.Type
}

func signedOutcome(err error) string {
	if err == nil {
		return observability.OutcomeOK
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return apperrors.ErrInternalError.Code
}

// AcceptPluginPermissions records the caller's trust decision
// @Summary Accept plugin permissions
// @Tags Plugins
// @Security BearerAuth
// @Router /api/v1/plugins/acceptPluginPermissions [post]
func (c *PluginController) AcceptPluginPermissions(ctx *gin.Context) {
	var req request.AcceptPluginPermissionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.NewError[any](apperrors.CodeInvalidRequest, msgValidationFailed))
		return
	}

	resp, err := c.pluginService.AcceptPluginPermissions(ctx.Request.Context(), c.securityService.GetCurrentUserID(ctx), &req)
	if err != nil {
		c.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(resp))
}

// GetAppstorePlugin retrieves one catalog entry
// @Summary Get one appstore plugin
// @Tags Appstore
// @Router /api/v1/plugins/getAppstorePlugin [post]
func (c *PluginController) GetAppstorePlugin(ctx *gin.Context) {
	var req request.GetAppstorePluginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.NewError[any](apperrors.CodeInvalidRequest, msgValidationFailed))
		return
	}

	resp, err := c.pluginService.GetAppstorePlugin(ctx.Request.Context(), &req)
	if err != nil {
		c.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(resp))
}

// GetAppstorePlugins lists catalog entries
// @Summary List appstore plugins
// @Tags Appstore
// @Router /api/v1/plugins/getAppstorePlugins [post]
func (c *PluginController) GetAppstorePlugins(ctx *gin.Context) {
	var req request.GetAppstorePluginsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.NewError[any](apperrors.CodeInvalidRequest, msgValidationFailed))
		return
	}

	resp, err := c.pluginService.GetAppstorePlugins(ctx.Request.Context(), &req)
	if err != nil {
		c.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(resp))
}

// GetPluginCommunities lists communities installing a plugin
// @Summary List communities installing a plugin
// @Tags Appstore
// @Router /api/v1/plugins/getPluginCommunities [post]
func (c *PluginController) GetPluginCommunities(ctx *gin.Context) {
	var req request.GetPluginCommunitiesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.NewError[any](apperrors.CodeInvalidRequest, msgValidationFailed))
		return
	}

	resp, err := c.pluginService.GetPluginCommunities(ctx.Request.Context(), &req)
	if err != nil {
		c.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.NewSuccess(resp))
}
