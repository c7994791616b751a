package di

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/domain/repository"
	"github.com/gatherhall/plugin-trust/internal/events"
	"github.com/gatherhall/plugin-trust/internal/security"
)

// EventsModule provides the websocket hub and event broadcasting
var EventsModule = fx.Module("events",
	fx.Provide(
		events.DefaultWebSocketConfig,
		provideHub,
		provideBroadcaster,
		provideRoomAuthorizer,
		provideWebSocketHandler,
	),
	fx.Invoke(startHub),
)

func provideHub(logger *zap.Logger) *events.Hub {
	return events.NewHub(logger)
}

func provideBroadcaster(hub *events.Hub) events.Broadcaster {
	return events.NewHubBroadcaster(hub)
}

func provideRoomAuthorizer(communityRepo repository.CommunityRepository) events.RoomAuthorizer {
	return events.NewMembershipAuthorizer(communityRepo)
}

func provideWebSocketHandler(
	cfg *events.WebSocketConfig,
	hub *events.Hub,
	jwtProvider *security.JWTProvider,
	authorizer events.RoomAuthorizer,
	logger *zap.Logger,
) *events.Handler {
	return events.NewHandler(cfg, hub, jwtProvider, authorizer, logger)
}

func startHub(lc fx.Lifecycle, hub *events.Hub, cfg *events.WebSocketConfig, logger *zap.Logger) {
	hubCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting websocket hub")
			go hub.Run(hubCtx)
			go heartbeatLoop(hubCtx, hub, cfg.HeartbeatInterval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping websocket hub")
			cancel()
			return nil
		},
	})
}

func heartbeatLoop(ctx context.Context, hub *events.Hub, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hub.SendHeartbeat()
		}
	}
}
