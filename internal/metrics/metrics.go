package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 接送码核心链路指标
var (
	PickupIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nursery_pickup_issued_total",
		Help: "Total number of pickup codes issued.",
	})

	PickupRedeemedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nursery_pickup_redeemed_total",
		Help: "Total number of pickup codes redeemed successfully.",
	})

	PickupRedeemRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nursery_pickup_redeem_rejected_total",
		Help: "Total number of rejected pickup redemption attempts by reason.",
	}, []string{"reason"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nursery_http_requests_total",
		Help: "Total number of HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nursery_http_request_duration_seconds",
		Help:    "HTTP request latency distribution.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// 核销拒绝原因标签值
const (
	RejectReasonNotFound = "not_found"
	RejectReasonExpired  = "expired"
	RejectReasonRedeemed = "already_used"
)
