package mocks

import (
	"context"
	"sync"

	"github.com/gatherhall/plugin-trust/internal/events"
	apperrors "github.com/gatherhall/plugin-trust/pkg/errors"
)

// EmittedEvent records one broadcast with its targeting.
type EmittedEvent struct {
	Event   any
	Target  events.Target
	Exclude events.Target
}

// MockBroadcaster records emitted events instead of delivering them.
type MockBroadcaster struct {
	mu     sync.Mutex
	Events []EmittedEvent

	// Error injection
	EmitErr error
}

var _ events.Broadcaster = (*MockBroadcaster)(nil)

func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

func (b *MockBroadcaster) Emit(ctx context.Context, event any, target events.Target) error {
	if b.EmitErr != nil {
		return b.EmitErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Events = append(b.Events, EmittedEvent{Event: event, Target: target})
	return nil
}

func (b *MockBroadcaster) EmitExcluding(ctx context.Context, event any, target events.Target, exclude events.Target) error {
	if b.EmitErr != nil {
		return b.EmitErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Events = append(b.Events, EmittedEvent{Event: event, Target: target, Exclude: exclude})
	return nil
}

// Emitted returns a snapshot of the recorded events.
func (b *MockBroadcaster) Emitted() []EmittedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]EmittedEvent, len(b.Events))
	copy(out, b.Events)
	return out
}

// MockReplayGuard is an in-memory replay guard.
type MockReplayGuard struct {
	mu   sync.Mutex
	seen map[string]bool

	// Error injection
	ConsumeErr error
}

func NewMockReplayGuard() *MockReplayGuard {
	return &MockReplayGuard{seen: make(map[string]bool)}
}

func (g *MockReplayGuard) Consume(ctx context.Context, requestID string) error {
	if g.ConsumeErr != nil {
		return g.ConsumeErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen[requestID] {
		return apperrors.ErrDuplicatedSignedRequest
	}
	g.seen[requestID] = true
	return nil
}

// Seen reports whether the guard has consumed the request id.
func (g *MockReplayGuard) Seen(requestID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seen[requestID]
}
