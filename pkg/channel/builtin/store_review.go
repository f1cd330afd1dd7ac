package builtin

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/channel"
)

const (
	// StoreReviewChannelID is the identifier for the native store review channel
	StoreReviewChannelID = "store_review"
)

// ReviewRequester asks the merchant platform to show its native review
// dialog. The platform may decline (the dialog has its own frequency
// budget), which surfaces as a non-success result and triggers fallback.
type ReviewRequester interface {
	RequestReview(ctx context.Context, tenantID string) error
}

// StoreReviewChannel presents through the platform's native review dialog.
// This is the preferred channel: a native dialog converts better than any
// in-app surface.
type StoreReviewChannel struct {
	config    channel.ChannelConfig
	requester ReviewRequester
}

// NewStoreReviewChannel creates a new native store review channel.
func NewStoreReviewChannel(config channel.ChannelConfig, requester ReviewRequester) *StoreReviewChannel {
	return &StoreReviewChannel{
		config:    config,
		requester: requester,
	}
}

// ID returns the channel identifier.
func (c *StoreReviewChannel) ID() string {
	return c.config.ID
}

// Name returns the channel name.
func (c *StoreReviewChannel) Name() string {
	return "Native Store Review"
}

// Config returns the channel configuration.
func (c *StoreReviewChannel) Config() channel.ChannelConfig {
	return c.config
}

// Present asks the platform to show its native review dialog.
func (c *StoreReviewChannel) Present(ctx context.Context, req channel.PresentRequest) (*channel.Result, error) {
	if c.requester == nil {
		logrus.Warnf("[TEST MODE] would request native store review for tenant %s", req.TenantID)
		return channel.Ok(), nil
	}

	logrus.Infof("requesting native store review for tenant %s", req.TenantID)

	if err := c.requester.RequestReview(ctx, req.TenantID); err != nil {
		return channel.Failed("native_declined", err.Error()), fmt.Errorf("native review request failed: %w", err)
	}

	return channel.Ok(), nil
}
