package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LikeTogglesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "like_toggles_total",
			Help: "Total number of like toggles",
		},
	)

	LikeProductsLiked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "like_products_liked",
			Help: "Number of products currently marked as liked",
		},
	)

	LikeStorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "like_storage_operations_total",
			Help: "Total number of like snapshot storage operations by kind and result",
		},
		[]string{"operation", "result"},
	)
)
