package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crewdesk_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// VerificationResults counts reddit account verification outcomes.
	// result is one of: exists, not_found, rate_limited, upstream_error, network_error.
	VerificationResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crewdesk_verification_results_total",
		Help: "Total reddit account verification calls by outcome",
	}, []string{"result"})

	// TokenRefreshes counts reddit OAuth token exchanges (cache misses).
	TokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crewdesk_reddit_token_refreshes_total",
		Help: "Total reddit OAuth client-credentials exchanges performed",
	})

	// Qualifications counts qualification submissions by outcome.
	Qualifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crewdesk_qualifications_total",
		Help: "Total qualification submissions by outcome",
	}, []string{"outcome"})

	// ContractorRequests counts contractor join requests by outcome.
	ContractorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crewdesk_contractor_requests_total",
		Help: "Total contractor join requests by outcome",
	}, []string{"outcome"})
)
