package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/service"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

const (
	// InAppModalChannelID is the identifier for the in-app modal channel
	InAppModalChannelID = "in_app_modal"

	defaultFreeMessage = "Enjoying the app? A quick review helps us a lot!"
	defaultPaidMessage = "Thanks for being a subscriber! Would you leave us a review?"
)

// PendingPrompt is the instruction the admin UI polls for. The channel
// "presents" by queueing this under the device key; the SPA renders the
// modal on its next poll.
type PendingPrompt struct {
	Surface   string    `json:"surface"`
	Message   string    `json:"message"`
	QueuedAt  time.Time `json:"queuedAt"`
	ChannelID string    `json:"channelId"`
}

// InAppModalChannel presents through the application's own review modal.
type InAppModalChannel struct {
	config      channel.ChannelConfig
	deviceStore service.DeviceStore
	freeMessage string
	paidMessage string
}

// NewInAppModalChannel creates a new in-app modal channel.
func NewInAppModalChannel(config channel.ChannelConfig, deviceStore service.DeviceStore) *InAppModalChannel {
	return &InAppModalChannel{
		config:      config,
		deviceStore: deviceStore,
		freeMessage: config.GetParameterString("free_message", defaultFreeMessage),
		paidMessage: config.GetParameterString("paid_message", defaultPaidMessage),
	}
}

// ID returns the channel identifier.
func (c *InAppModalChannel) ID() string {
	return c.config.ID
}

// Name returns the channel name.
func (c *InAppModalChannel) Name() string {
	return "In-App Review Modal"
}

// Config returns the channel configuration.
func (c *InAppModalChannel) Config() channel.ChannelConfig {
	return c.config
}

// Present queues the modal instruction for the device. The plan tier picks
// the message copy; it never affects whether the modal shows.
func (c *InAppModalChannel) Present(ctx context.Context, req channel.PresentRequest) (*channel.Result, error) {
	if req.DeviceID == "" {
		return channel.Failed("no_device", "no device identifier in request"), nil
	}

	message := c.freeMessage
	if req.PlanTier == state.PlanPaid {
		message = c.paidMessage
	}

	prompt := PendingPrompt{
		Surface:   req.Surface,
		Message:   message,
		QueuedAt:  time.Now(),
		ChannelID: c.config.ID,
	}

	data, err := json.Marshal(prompt)
	if err != nil {
		return channel.Failed("marshal_failed", err.Error()), fmt.Errorf("failed to marshal pending prompt: %w", err)
	}

	key := fmt.Sprintf("%s:pending_prompt", req.DeviceID)
	if err := c.deviceStore.SetItem(ctx, key, string(data)); err != nil {
		return channel.Failed("store_failed", err.Error()), fmt.Errorf("failed to queue modal prompt: %w", err)
	}

	logrus.Infof("queued in-app modal for tenant %s (device %s)", req.TenantID, req.DeviceID)
	return channel.Ok(), nil
}
