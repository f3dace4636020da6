// Package observability defines the application's Prometheus collectors.
// HTTP-level metrics come from the fiberprometheus middleware; the collectors
// here cover the data pipeline itself.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImageProbes counts image existence probes by outcome.
	ImageProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modboard_image_probes_total",
		Help: "Image existence probes performed, labelled by result.",
	}, []string{"result"})

	// ImageProbeCacheHits counts probes answered from the probe cache.
	ImageProbeCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modboard_image_probe_cache_hits_total",
		Help: "Image probes answered from the in-memory probe cache.",
	})

	// DataLoadDuration times full dataset loads across all partitions.
	DataLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modboard_data_load_duration_seconds",
		Help:    "Wall time of a full dataset load and assembly pass.",
		Buckets: prometheus.DefBuckets,
	})

	// PartitionLoadFailures counts partition files that failed to load for a
	// reason other than absence.
	PartitionLoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modboard_partition_load_failures_total",
		Help: "Partition file loads that failed, labelled by source.",
	}, []string{"source"})

	// PostsAssembled counts raw records successfully converted into posts.
	PostsAssembled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modboard_posts_assembled_total",
		Help: "Raw records successfully assembled into posts.",
	})

	// PostsRejected counts raw records dropped during assembly.
	PostsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modboard_posts_rejected_total",
		Help: "Raw records rejected during assembly for missing content.",
	})

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modboard_redis_errors_total",
		Help: "Redis command failures, labelled by command.",
	}, []string{"command"})
)
