package trust

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/security"
	apperrors "github.com/gatherhall/plugin-trust/pkg/errors"
)

// ReplayGuard consumes request ids, succeeding at most once per id
// within the retention window.
type ReplayGuard interface {
	Consume(ctx context.Context, requestID string) error
}

// Verifier authenticates parsed plugin request envelopes. The check
// order is schema, freshness, replay, signature: cheap categorical
// rejections run first, and the replay id is consumed before the
// signature check so two valid concurrent copies of the same request
// can never both reach a handler.
type Verifier struct {
	guard     ReplayGuard
	issuer    *security.KeyIssuer
	freshness time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewVerifier creates a Verifier. freshness is the maximum accepted age
// of a request id timestamp.
func NewVerifier(guard ReplayGuard, issuer *security.KeyIssuer, freshness time.Duration, logger *zap.Logger) *Verifier {
	return &Verifier{
		guard:     guard,
		issuer:    issuer,
		freshness: freshness,
		logger:    logger,
		now:       time.Now,
	}
}

// Authenticate runs the envelope through the full verification
// pipeline. raw must be the exact bytes the signature was computed
// over. publicKeyPEM is the plugin's stored public key.
func (v *Verifier) Authenticate(ctx context.Context, envelope *Envelope, raw []byte, signature, publicKeyPEM string) error {
	if err := envelope.Validate(); err != nil {
		return err
	}

	issuedAt, err := envelope.Timestamp()
	if err != nil {
		return err
	}
	// Request id timestamps carry millisecond precision, so the age is
	// compared in milliseconds. An age exactly equal to the window is
	// still fresh.
	if v.now().UnixMilli()-issuedAt.UnixMilli() > v.freshness.Milliseconds() {
		return apperrors.ErrSignedRequestExpired
	}

	if err := v.guard.Consume(ctx, envelope.RequestID); err != nil {
		return err
	}

	if err := v.issuer.Verify(publicKeyPEM, raw, signature); err != nil {
		v.logger.Warn("plugin request signature rejected",
			zap.String("requestId", envelope.RequestID),
			zap.String("installationId", envelope.PluginID))
		return apperrors.ErrInvalidSignature
	}
	return nil
}
