//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2025 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package monitoring

import "github.com/prometheus/client_golang/prometheus"

// PrometheusMetrics is the process-wide metrics sink. Storage subsystems
// curry the vectors with their own table/partition/bucket labels, see
// filestore.NewMetrics.
type PrometheusMetrics struct {
	AsyncOperations     *prometheus.GaugeVec
	CompactionDurations prometheus.ObserverVec
	FileStoreWriters    *prometheus.GaugeVec
}

// GetMetrics registers the driftlake metric vectors on the given registerer
// and returns the sink. Pass NoopRegisterer to run with monitoring disabled
// but the full code path exercised.
func GetMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	pm := &PrometheusMetrics{
		AsyncOperations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "driftlake_async_operations_running",
			Help: "Currently running async operations",
		}, []string{"operation", "table_name", "partition", "bucket"}),
		CompactionDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "driftlake_compaction_durations_ms",
			Help:    "Duration of a single compaction run",
			Buckets: prometheus.ExponentialBuckets(10, 5, 6),
		}, []string{"table_name", "partition", "bucket"}),
		FileStoreWriters: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "driftlake_file_store_writers",
			Help: "Live bucket writers per table-write session",
		}, []string{"table_name"}),
	}

	reg.MustRegister(pm.AsyncOperations, pm.CompactionDurations, pm.FileStoreWriters)
	return pm
}
