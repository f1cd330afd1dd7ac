package builtin

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/service"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

const (
	// ChatMessageChannelID is the identifier for the support-chat channel
	ChatMessageChannelID = "chat_message"

	defaultChatMessage = "Hi! If the app has been useful, we'd love a review. It takes a minute and helps us keep improving."
)

// ChatMessageChannel presents by posting into the tenant's support-chat
// widget. Used by the automation sweep as a low-friction secondary surface.
type ChatMessageChannel struct {
	config      channel.ChannelConfig
	poster      service.MessagePoster
	freeMessage string
	paidMessage string
}

// NewChatMessageChannel creates a new chat message channel.
func NewChatMessageChannel(config channel.ChannelConfig, poster service.MessagePoster) *ChatMessageChannel {
	return &ChatMessageChannel{
		config:      config,
		poster:      poster,
		freeMessage: config.GetParameterString("free_message", defaultChatMessage),
		paidMessage: config.GetParameterString("paid_message", defaultChatMessage),
	}
}

// ID returns the channel identifier.
func (c *ChatMessageChannel) ID() string {
	return c.config.ID
}

// Name returns the channel name.
func (c *ChatMessageChannel) Name() string {
	return "Support Chat Message"
}

// Config returns the channel configuration.
func (c *ChatMessageChannel) Config() channel.ChannelConfig {
	return c.config
}

// Present posts the review request into the tenant's chat widget.
func (c *ChatMessageChannel) Present(ctx context.Context, req channel.PresentRequest) (*channel.Result, error) {
	message := c.freeMessage
	if req.PlanTier == state.PlanPaid {
		message = c.paidMessage
	}

	if c.poster == nil {
		logrus.Warnf("[TEST MODE] would post chat message to tenant %s", req.TenantID)
		return channel.Ok(), nil
	}

	if err := c.poster.PostMessage(ctx, req.TenantID, message); err != nil {
		return channel.Failed("post_failed", err.Error()), fmt.Errorf("failed to post chat message: %w", err)
	}

	logrus.Infof("posted review chat message to tenant %s", req.TenantID)
	return channel.Ok(), nil
}
