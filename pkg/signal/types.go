package signal

import "time"

// Signal type identifiers.
const (
	TypeFeatureToggle   = "feature_toggle"
	TypeSessionStart    = "session_start"
	TypeReviewSubmitted = "review_submitted"
)

// Event is a raw engagement event as reported by the merchant-facing app.
type Event struct {
	Type              string    `json:"type" binding:"required"`
	Feature           string    `json:"feature,omitempty"`
	DeviceID          string    `json:"device_id,omitempty"`
	PrivilegedSession bool      `json:"privileged_session,omitempty"`
	PlanTier          string    `json:"plan_tier,omitempty"`
	Timestamp         time.Time `json:"timestamp,omitempty"`
}

// Raw event type names accepted on the events endpoint.
const (
	EventFeatureEnabled  = "feature_enabled"
	EventFeatureDisabled = "feature_disabled"
	EventSessionStart    = "session_start"
	EventReviewSubmitted = "review_submitted"
)

// FeatureToggleSignal reports a product feature being switched on or off.
type FeatureToggleSignal struct {
	tenantID  string
	timestamp time.Time
	context   *TenantContext

	Feature string
	Enabled bool
}

// NewFeatureToggleSignal creates a feature toggle signal.
func NewFeatureToggleSignal(tenantID string, timestamp time.Time, feature string, enabled bool, context *TenantContext) *FeatureToggleSignal {
	return &FeatureToggleSignal{
		tenantID:  tenantID,
		timestamp: timestamp,
		context:   context,
		Feature:   feature,
		Enabled:   enabled,
	}
}

func (s *FeatureToggleSignal) Type() string         { return TypeFeatureToggle }
func (s *FeatureToggleSignal) TenantID() string     { return s.tenantID }
func (s *FeatureToggleSignal) Timestamp() time.Time { return s.timestamp }
func (s *FeatureToggleSignal) Context() *TenantContext {
	return s.context
}

func (s *FeatureToggleSignal) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"feature": s.Feature,
		"enabled": s.Enabled,
	}
}

// SessionStartSignal reports the start of a merchant admin session. This is
// the trigger for evaluating automatic prompt surfaces.
type SessionStartSignal struct {
	tenantID  string
	timestamp time.Time
	context   *TenantContext
}

// NewSessionStartSignal creates a session start signal.
func NewSessionStartSignal(tenantID string, timestamp time.Time, context *TenantContext) *SessionStartSignal {
	return &SessionStartSignal{
		tenantID:  tenantID,
		timestamp: timestamp,
		context:   context,
	}
}

func (s *SessionStartSignal) Type() string             { return TypeSessionStart }
func (s *SessionStartSignal) TenantID() string         { return s.tenantID }
func (s *SessionStartSignal) Timestamp() time.Time     { return s.timestamp }
func (s *SessionStartSignal) Context() *TenantContext  { return s.context }
func (s *SessionStartSignal) Metadata() map[string]interface{} {
	return map[string]interface{}{}
}

// ReviewSubmittedSignal reports that the tenant left a review. This is the
// terminal transition; no surface prompts after it.
type ReviewSubmittedSignal struct {
	tenantID  string
	timestamp time.Time
	context   *TenantContext
}

// NewReviewSubmittedSignal creates a review submitted signal.
func NewReviewSubmittedSignal(tenantID string, timestamp time.Time, context *TenantContext) *ReviewSubmittedSignal {
	return &ReviewSubmittedSignal{
		tenantID:  tenantID,
		timestamp: timestamp,
		context:   context,
	}
}

func (s *ReviewSubmittedSignal) Type() string            { return TypeReviewSubmitted }
func (s *ReviewSubmittedSignal) TenantID() string        { return s.tenantID }
func (s *ReviewSubmittedSignal) Timestamp() time.Time    { return s.timestamp }
func (s *ReviewSubmittedSignal) Context() *TenantContext { return s.context }
func (s *ReviewSubmittedSignal) Metadata() map[string]interface{} {
	return map[string]interface{}{}
}
