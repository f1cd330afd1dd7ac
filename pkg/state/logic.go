// Copyright (c) 2025 Webrex Studio. All Rights Reserved.
// This is licensed software from Webrex Studio, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Baseline returns the cooldown baseline for a tenant: the last prompt time,
// or the account creation time when no prompt has been shown yet.
func Baseline(s *ReviewState) time.Time {
	if s.LastRequestedAt != nil {
		return *s.LastRequestedAt
	}
	return s.CreatedAt
}

// MarkPrompted records that a prompt was shown on the given channel.
// The caller must persist the state before presenting the prompt so that a
// crash after presentation cannot cause an immediate re-prompt.
func MarkPrompted(s *ReviewState, now time.Time, channelID string) {
	ts := now
	s.LastRequestedAt = &ts
	s.RequestCount++
	s.ActiveChannel = channelID

	logrus.Debugf("marked prompted: requestCount=%d, channel=%s", s.RequestCount, channelID)
}

// MarkReviewed transitions the tenant into the terminal Reviewed state.
// There are no outgoing transitions from it.
func MarkReviewed(s *ReviewState, now time.Time) {
	if s.ReviewPosted {
		return
	}

	ts := now
	s.ReviewPosted = true
	s.ReviewedAt = &ts

	logrus.Infof("tenant marked as reviewed at %v", now)
}

// GrantCredit stamps the credit-on-review grant time. The window is anchored
// at the first grant; showing the banner again does not extend it.
func GrantCredit(s *ReviewState, now time.Time) {
	if s.CreditGrantedAt != nil {
		return
	}
	ts := now
	s.CreditGrantedAt = &ts
}

// ChannelArmed reports whether the secondary channel cooldown has expired.
// A zero expiry means the channel has never fired and is armed.
func ChannelArmed(cooldown ChannelCooldown, now time.Time) bool {
	if cooldown.ExpiresAt.IsZero() {
		return true
	}
	return now.After(cooldown.ExpiresAt)
}

// ArmChannel returns the cooldown to persist after the secondary channel
// fires.
func ArmChannel(now time.Time, windowDays float64) ChannelCooldown {
	return ChannelCooldown{
		ExpiresAt: now.Add(time.Duration(windowDays * 24 * float64(time.Hour))),
	}
}
