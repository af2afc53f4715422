package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Redirect cache effectiveness; the hot path should mostly hit
	redirectCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redirect_cache_lookups_total",
			Help: "Redirect cache lookups partitioned by result",
		},
		[]string{"result"},
	)

	// Click recording outcomes; drops never fail the redirect
	clickRecordings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "click_recordings_total",
			Help: "Asynchronous click recordings partitioned by outcome",
		},
		[]string{"outcome"},
	)

	// Links rejected by the safety screener
	linksBlocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "links_blocked_total",
			Help: "Shorten requests rejected by the malicious-URL screener",
		},
	)
)
