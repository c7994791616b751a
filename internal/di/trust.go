package di

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
	"github.com/gatherhall/plugin-trust/internal/replay"
	"github.com/gatherhall/plugin-trust/internal/security"
	"github.com/gatherhall/plugin-trust/internal/trust"
)

// TrustModule provides the signed request pipeline: replay guard,
// envelope verifier, response signer, and permission gate.
var TrustModule = fx.Module("trust",
	fx.Provide(
		provideReplayGuard,
		provideVerifier,
		provideSigner,
		provideGate,
	),
)

func provideReplayGuard(client *redis.Client, cfg *config.TrustConfig, logger *zap.Logger) *replay.Guard {
	return replay.NewGuard(client, cfg.DedupTTL, logger)
}

func provideVerifier(guard *replay.Guard, issuer *security.KeyIssuer, cfg *config.TrustConfig, logger *zap.Logger) *trust.Verifier {
	return trust.NewVerifier(guard, issuer, cfg.FreshnessWindow, logger)
}

func provideSigner(issuer *security.KeyIssuer) *trust.Signer {
	return trust.NewSigner(issuer)
}

func provideGate() *trust.Gate {
	return trust.NewGate()
}
