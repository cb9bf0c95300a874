package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)

	GiftsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gifts_sent_total",
			Help: "Total gifts successfully transferred",
		},
		[]string{"gift"},
	)
	CoinsCredited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coins_credited_total",
			Help: "Total coins credited through completed purchases",
		},
	)
	WithdrawalsRequested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "withdrawals_requested_total",
			Help: "Total withdrawal requests accepted",
		},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(GiftsSent)
	prometheus.MustRegister(CoinsCredited)
	prometheus.MustRegister(WithdrawalsRequested)
}
