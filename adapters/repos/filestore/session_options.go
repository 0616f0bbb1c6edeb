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
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/weaviate/driftlake/entities/tasklane"
	"github.com/weaviate/driftlake/usecases/monitoring"
)

// compactionLaneQueueLen bounds how many compaction tasks may queue up on a
// lazily created lane before writers block on scheduling.
const compactionLaneQueueLen = 16

type config struct {
	commitUser          string
	ignorePreviousFiles bool
	streamingMode       bool
	lane                *tasklane.Lane
	ioManager           IOManager
	memoryPool          MemoryPool
	promMetrics         *monitoring.PrometheusMetrics
	tableName           string
}

func defaultConfig() config {
	return config{
		commitUser: uuid.NewString(),
	}
}

type Option func(cfg *config) error

// WithCommitUser sets the write identity attributed to this session's
// commits. Sessions that resume an identity across restarts must set it
// explicitly; the default is a fresh random identity.
func WithCommitUser(commitUser string) Option {
	return func(cfg *config) error {
		if commitUser == "" {
			return errors.Errorf("commit user must not be empty")
		}
		cfg.commitUser = commitUser
		return nil
	}
}

// WithIgnorePreviousFiles makes newly created writers start from an empty
// file set instead of scanning the latest snapshot, e.g. for overwrite
// writes.
func WithIgnorePreviousFiles(ignore bool) Option {
	return func(cfg *config) error {
		cfg.ignorePreviousFiles = ignore
		return nil
	}
}

// WithStreamingMode marks the session as part of an unbounded streaming
// write rather than a bounded batch job. The flag is handed to writers
// through Resources, e.g. to pick commit-log rollover policies.
func WithStreamingMode(streaming bool) Option {
	return func(cfg *config) error {
		cfg.streamingMode = streaming
		return nil
	}
}

// WithCompactionLane attaches an externally owned task lane. The session
// will hand it to every writer but never terminate it.
func WithCompactionLane(lane *tasklane.Lane) Option {
	return func(cfg *config) error {
		if lane == nil {
			return errors.Errorf("compaction lane must not be nil")
		}
		cfg.lane = lane
		return nil
	}
}

// WithIOManager attaches a scratch-space provider for spilling writers.
func WithIOManager(manager IOManager) Option {
	return func(cfg *config) error {
		cfg.ioManager = manager
		return nil
	}
}

// WithMemoryPool attaches a shared write-buffer budget. Only writers
// created after the pool was attached see it.
func WithMemoryPool(pool MemoryPool) Option {
	return func(cfg *config) error {
		cfg.memoryPool = pool
		return nil
	}
}

// WithMetrics attaches a prometheus sink. tableName labels every metric of
// this session.
func WithMetrics(promMetrics *monitoring.PrometheusMetrics, tableName string) Option {
	return func(cfg *config) error {
		if promMetrics == nil {
			return errors.Errorf("prometheus metrics must not be nil")
		}
		cfg.promMetrics = promMetrics
		cfg.tableName = tableName
		return nil
	}
}
