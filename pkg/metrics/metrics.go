package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Scheduler metrics, registered on the metrics server's registry at startup.
var (
	// PromptsEvaluatedTotal counts eligibility evaluations per surface.
	PromptsEvaluatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_engagement_prompts_evaluated_total",
			Help: "Total number of prompt eligibility evaluations",
		},
		[]string{"surface"},
	)

	// PromptsSuppressedTotal counts denials, labelled by the gate that denied.
	PromptsSuppressedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_engagement_prompts_suppressed_total",
			Help: "Total number of prompts suppressed by an eligibility gate",
		},
		[]string{"surface", "gate"},
	)

	// PromptsDispatchedTotal counts prompts actually presented.
	PromptsDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_engagement_prompts_dispatched_total",
			Help: "Total number of prompts presented, by channel",
		},
		[]string{"surface", "channel"},
	)

	// ChannelFallbacksTotal counts preferred-channel failures that caused a
	// fallback to the next channel in the preference list.
	ChannelFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_engagement_channel_fallbacks_total",
			Help: "Total number of channel presentation failures that fell back",
		},
		[]string{"surface", "channel"},
	)

	// StateWriteFailuresTotal counts aborted dispatches due to state-store
	// write failures (fail-closed path).
	StateWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "review_engagement_state_write_failures_total",
			Help: "Total number of dispatches aborted because the state write failed",
		},
	)

	// ChatSweepFiredTotal counts chat-automation messages sent by the sweep.
	ChatSweepFiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "review_engagement_chat_sweep_fired_total",
			Help: "Total number of chat messages sent by the automation sweep",
		},
	)

	// TelemetryEventsTotal counts telemetry events by name.
	TelemetryEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_engagement_telemetry_events_total",
			Help: "Total number of telemetry events emitted",
		},
		[]string{"event"},
	)
)

// Register adds all scheduler metrics to the given registry.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		PromptsEvaluatedTotal,
		PromptsSuppressedTotal,
		PromptsDispatchedTotal,
		ChannelFallbacksTotal,
		StateWriteFailuresTotal,
		ChatSweepFiredTotal,
		TelemetryEventsTotal,
	)
}
