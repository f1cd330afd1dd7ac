package builtin

import (
	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/service"
)

// Dependencies holds dependencies needed by built-in channels.
type Dependencies struct {
	DeviceStore     service.DeviceStore
	MessagePoster   service.MessagePoster
	ReviewRequester ReviewRequester
}

// RegisterChannels registers built-in channel factories with dependencies.
func RegisterChannels(deps *Dependencies) {
	channel.RegisterChannelType(StoreReviewChannelID, func(config channel.ChannelConfig) (channel.Channel, error) {
		return NewStoreReviewChannel(config, deps.ReviewRequester), nil
	})

	channel.RegisterChannelType(InAppModalChannelID, func(config channel.ChannelConfig) (channel.Channel, error) {
		return NewInAppModalChannel(config, deps.DeviceStore), nil
	})

	channel.RegisterChannelType(ChatMessageChannelID, func(config channel.ChannelConfig) (channel.Channel, error) {
		return NewChatMessageChannel(config, deps.MessagePoster), nil
	})
}
