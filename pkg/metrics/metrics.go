package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SessionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "vyapardesk", Name: "sessions_created_total", Help: "Number of onboarding sessions created."},
	)
	StepAdvances = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vyapardesk", Name: "step_advances_total", Help: "Number of step transitions by target step."},
		[]string{"step"},
	)
	ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vyapardesk", Name: "validation_failures_total", Help: "Number of field validation failures by field."},
		[]string{"field"},
	)
	DocumentsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vyapardesk", Name: "documents_processed_total", Help: "Number of processed uploads by category and status."},
		[]string{"category", "status"},
	)
	AssistantCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vyapardesk", Name: "assistant_calls_total", Help: "Number of assistant model calls by outcome."},
		[]string{"outcome"},
	)
	EnrichmentLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vyapardesk", Name: "enrichment_lookups_total", Help: "Number of registry lookups by registry and outcome."},
		[]string{"registry", "outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vyapardesk", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vyapardesk", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(SessionsCreated)
	reg.MustRegister(StepAdvances)
	reg.MustRegister(ValidationFailures)
	reg.MustRegister(DocumentsProcessed)
	reg.MustRegister(AssistantCalls)
	reg.MustRegister(EnrichmentLookups)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
