package port

import (
	"context"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
)

// Dispatcher hands a transcode request to compute without waiting for the
// encode itself.
type Dispatcher interface {
	Trigger(ctx context.Context, videoID, inputURI string) (domain.Strategy, error)
	HealthCheck(ctx context.Context) error
	Strategy() domain.Strategy
}

// DispatchQueue is the compute side of dispatch. Claim returns nil, nil when
// nothing is waiting.
type DispatchQueue interface {
	Enqueue(ctx context.Context, msg domain.DispatchMessage) error
	Claim(ctx context.Context) (*domain.Delivery, error)
	Complete(ctx context.Context, deliveryID string) error
	Fail(ctx context.Context, deliveryID string, errMsg string) error
	ResetStalled(ctx context.Context) error
}
