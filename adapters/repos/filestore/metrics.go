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

package filestore

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/weaviate/driftlake/usecases/monitoring"
)

// Metrics wraps the process-wide sink curried with this session's table
// name. A nil *Metrics disables every observation, so callers never need to
// branch on whether monitoring is attached.
type Metrics struct {
	compactionsRunning  *prometheus.GaugeVec
	compactionDurations prometheus.ObserverVec
	writers             prometheus.Gauge
}

func NewMetrics(promMetrics *monitoring.PrometheusMetrics, tableName string) *Metrics {
	return &Metrics{
		compactionsRunning: promMetrics.AsyncOperations.MustCurryWith(prometheus.Labels{
			"operation":  "compact_file_store_bucket",
			"table_name": tableName,
		}),
		compactionDurations: promMetrics.CompactionDurations.MustCurryWith(prometheus.Labels{
			"table_name": tableName,
		}),
		writers: promMetrics.FileStoreWriters.With(prometheus.Labels{
			"table_name": tableName,
		}),
	}
}

func (m *Metrics) WriterCreated() {
	if m == nil {
		return
	}

	m.writers.Inc()
}

func (m *Metrics) WriterClosed() {
	if m == nil {
		return
	}

	m.writers.Dec()
}

// CompactionMetrics returns the handle for one partition/bucket pair. It is
// handed to the pair's writer at creation time through Resources.
func (m *Metrics) CompactionMetrics(partition string, bucket int) *CompactionMetrics {
	if m == nil {
		return nil
	}

	labels := prometheus.Labels{
		"partition": partitionLabel(partition),
		"bucket":    strconv.Itoa(bucket),
	}

	return &CompactionMetrics{
		running:   m.compactionsRunning.With(labels),
		durations: m.compactionDurations.With(labels),
	}
}

// CompactionMetrics observes the compaction activity of a single
// partition/bucket writer.
type CompactionMetrics struct {
	running   prometheus.Gauge
	durations prometheus.Observer
}

func (cm *CompactionMetrics) CompactionStarted() {
	if cm == nil {
		return
	}

	cm.running.Inc()
}

func (cm *CompactionMetrics) CompactionFinished(took time.Duration) {
	if cm == nil {
		return
	}

	cm.running.Dec()
	cm.durations.Observe(float64(took.Milliseconds()))
}

// partitionLabel renders a partition path as a flat label value. The empty
// partition of an unpartitioned table becomes "_".
func partitionLabel(partition string) string {
	if partition == "" {
		return "_"
	}
	return strings.ReplaceAll(partition, "/", "_")
}
