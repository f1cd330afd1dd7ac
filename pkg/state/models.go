// Copyright (c) 2025 Webrex Studio. All Rights Reserved.
// This is licensed software from Webrex Studio, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"time"
)

// PlanTier identifies the merchant's subscription tier. The tier selects
// which message copy a channel uses; it never affects eligibility.
type PlanTier string

const (
	PlanFree PlanTier = "free"
	PlanPaid PlanTier = "paid"
)

// ReviewState is the persisted per-tenant review engagement record.
type ReviewState struct {
	// ReviewPosted is terminal: once true, no surface prompts again.
	ReviewPosted bool `json:"reviewPosted"`

	// LastRequestedAt is when a prompt was last shown. Nil until the first
	// prompt; CreatedAt is the cooldown baseline in that case.
	LastRequestedAt *time.Time `json:"lastRequestedAt,omitempty"`

	// RequestCount is how many prompts have been shown. It indexes into the
	// cooldown schedule.
	RequestCount int `json:"requestCount"`

	// CreatedAt is the tenant account creation time.
	CreatedAt time.Time `json:"createdAt"`

	// ReviewedAt records when the tenant clicked through to leave a review.
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`

	// CreditGrantedAt records when the credit-on-review banner first granted
	// a reward credit. The credit surface gates on this.
	CreditGrantedAt *time.Time `json:"creditGrantedAt,omitempty"`

	// ActiveChannel is the channel that last presented a prompt.
	ActiveChannel string `json:"activeChannel,omitempty"`
}

// EngagementSignal carries the per-session inputs to eligibility. It is
// derived at the boundary from request data and never persisted.
type EngagementSignal struct {
	// FeatureAdoptionCount is the number of distinct product features the
	// tenant has enabled. Nil means the data is not loaded yet; eligibility
	// treats that as not eligible.
	FeatureAdoptionCount *int

	// PrivilegedSession is true for administrative/internal sessions, which
	// never see prompts.
	PrivilegedSession bool

	// PlanTier selects message copy on the presenting channel.
	PlanTier PlanTier
}

// ChannelCooldown gates the secondary automated chat channel. It is keyed by
// an absolute expiry rather than an attempt count and lives in device-scoped
// storage, independent of ReviewState.
type ChannelCooldown struct {
	ExpiresAt time.Time `json:"expiresAt"`
}
