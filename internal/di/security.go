package di

import (
	"go.uber.org/fx"

	"github.com/gatherhall/plugin-trust/internal/config"
	"github.com/gatherhall/plugin-trust/internal/security"
)

// SecurityModule provides security-related dependencies
var SecurityModule = fx.Module("security",
	fx.Provide(
		provideJWTProvider,
		provideSecurityService,
		provideKeyIssuer,
		provideFileURLSigner,
	),
)

func provideJWTProvider(cfg *config.JWTConfig) *security.JWTProvider {
	return security.NewJWTProvider(cfg)
}

func provideSecurityService(jwtProvider *security.JWTProvider) *security.SecurityService {
	return security.NewSecurityService(jwtProvider)
}

func provideKeyIssuer() *security.KeyIssuer {
	return security.NewKeyIssuer()
}

func provideFileURLSigner(cfg *config.FilesConfig) *security.FileURLSigner {
	return security.NewFileURLSigner(cfg)
}
