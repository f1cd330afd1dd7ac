package service

import (
	"context"

	"github.com/webrexstudio/review-engagement/pkg/state"
)

// Service interfaces for external collaborators used by gates, channels and
// the dispatcher.

// StateStore is the persistence interface for per-tenant review state.
// Document-store semantics: the whole record is read and written back.
type StateStore interface {
	GetReviewState(ctx context.Context, tenantID string) (*state.ReviewState, error)
	UpdateReviewState(ctx context.Context, tenantID string, s *state.ReviewState) error
}

// DeviceStore is key-value storage scoped to a device/browser rather than a
// tenant account. The chat-channel cooldown lives here.
type DeviceStore interface {
	// GetItem returns the stored value, or "" when the key is absent.
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
}

// AdoptionTracker maintains the set of distinct product features a tenant
// has enabled. Its count feeds the feature-adoption eligibility gate.
type AdoptionTracker interface {
	AddFeature(ctx context.Context, tenantID, feature string) error
	RemoveFeature(ctx context.Context, tenantID, feature string) error
	Count(ctx context.Context, tenantID string) (int, error)
}

// MessagePoster delivers a message into the tenant's support-chat widget.
// Delivery mechanics belong to the surrounding application.
type MessagePoster interface {
	PostMessage(ctx context.Context, tenantID, message string) error
}

// EventLogger is the telemetry sink. Implementations must be best-effort:
// never block and never fail the calling flow.
type EventLogger interface {
	Log(event string, fields map[string]interface{})
}
