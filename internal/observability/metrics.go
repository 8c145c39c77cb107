package observability

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters for the engine's mutating operations, labeled by outcome.
var (
	FollowOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bitbrkr_follow_operations_total",
		Help: "Follow and unfollow operations.",
	}, []string{"op", "outcome"})

	MessageOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bitbrkr_message_operations_total",
		Help: "Thread creations and message appends.",
	}, []string{"op", "outcome"})

	EngagementOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bitbrkr_engagement_operations_total",
		Help: "Likes, comments and mark-read acknowledgements.",
	}, []string{"op", "outcome"})
)

// ServeMetrics exposes /metrics on its own port so the API listener
// stays free of scrape traffic.
func ServeMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()
}
