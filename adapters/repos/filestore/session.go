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

// Package filestore implements the write path of a table-format storage
// engine: one Session per logical table-write stream, owning the set of
// active per-partition, per-bucket writers and driving their
// commit/compaction lifecycle, including crash-safe checkpoint/restore.
//
// A Session is driven by a single goroutine. Write, Compact,
// NotifyNewFiles, PrepareCommit, Checkpoint, Restore and Close must not be
// called concurrently. The only concurrency inside a session is the shared
// compaction task lane, which runs writer-scheduled background work.
package filestore

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/driftlake/entities/errorcompounder"
	"github.com/weaviate/driftlake/entities/filemeta"
	"github.com/weaviate/driftlake/entities/partitionkey"
	"github.com/weaviate/driftlake/entities/storagestate"
	"github.com/weaviate/driftlake/entities/tasklane"
)

// Session owns every live writer of one table-write stream.
type Session[T any] struct {
	commitUser string

	factory      WriterFactory[T]
	snapshots    SnapshotManager
	scan         FileScanner
	indexFactory IndexMaintainerFactory[T] // nil when index maintenance is disabled

	// two-level registry: partition key -> bucket -> container. A partition
	// entry exists iff it holds at least one bucket entry.
	writers map[partitionkey.Key]map[int]*writerContainer[T]

	lane                 *tasklane.Lane
	terminateLaneOnClose bool

	ignorePreviousFiles bool
	streamingMode       bool

	ioManager  IOManager
	memoryPool MemoryPool

	metrics *Metrics // nil when no sink is attached

	// onNewWriter observes every writer right after creation, e.g. to
	// attach memory-pool quotas. Defaults to a no-op.
	onNewWriter func(RecordWriter[T])

	logger logrus.FieldLogger
	status storagestate.Status
}

// New builds a session for the given storage-format collaborators.
// indexFactory may be nil. Configuration must happen here, through options;
// a session must not be reconfigured once the first writer exists.
func New[T any](factory WriterFactory[T], snapshots SnapshotManager,
	scan FileScanner, indexFactory IndexMaintainerFactory[T],
	logger logrus.FieldLogger, opts ...Option,
) (*Session[T], error) {
	if factory == nil {
		return nil, errors.Errorf("writer factory must not be nil")
	}
	if snapshots == nil {
		return nil, errors.Errorf("snapshot manager must not be nil")
	}
	if scan == nil {
		return nil, errors.Errorf("file scanner must not be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	s := &Session[T]{
		commitUser:           cfg.commitUser,
		factory:              factory,
		snapshots:            snapshots,
		scan:                 scan,
		indexFactory:         indexFactory,
		writers:              map[partitionkey.Key]map[int]*writerContainer[T]{},
		lane:                 cfg.lane,
		terminateLaneOnClose: cfg.lane == nil,
		ignorePreviousFiles:  cfg.ignorePreviousFiles,
		streamingMode:        cfg.streamingMode,
		ioManager:            cfg.ioManager,
		memoryPool:           cfg.memoryPool,
		logger:               logger,
		status:               storagestate.StatusReady,
	}

	if cfg.promMetrics != nil {
		s.metrics = NewMetrics(cfg.promMetrics, cfg.tableName)
	}

	return s, nil
}

// WithNewWriterCallback registers an observer invoked for every writer the
// session creates, both on first access and on restore. Must be set before
// the first write.
func (s *Session[T]) WithNewWriterCallback(fn func(RecordWriter[T])) *Session[T] {
	s.onNewWriter = fn
	return s
}

// Write routes a record to the writer of its partition/bucket pair,
// creating the writer on first access.
func (s *Session[T]) Write(partition partitionkey.Key, bucket int, record T) error {
	if s.status == storagestate.StatusShutdown {
		return storagestate.ErrStatusShutdown
	}

	container, err := s.getOrCreateContainer(partition, bucket)
	if err != nil {
		return err
	}

	if err := container.writer.Write(record); err != nil {
		return errors.Wrapf(err, "write record to partition %q bucket %d",
			partition, bucket)
	}

	if container.indexMaintainer != nil {
		if err := container.indexMaintainer.NotifyNewRecord(record); err != nil {
			return errors.Wrapf(err, "notify index maintainer of partition %q bucket %d",
				partition, bucket)
		}
	}

	return nil
}

// Compact requests a compaction on the writer of the pair, creating it
// first if needed. With full set the writer rewrites all of its files.
func (s *Session[T]) Compact(partition partitionkey.Key, bucket int, full bool) error {
	if s.status == storagestate.StatusShutdown {
		return storagestate.ErrStatusShutdown
	}

	container, err := s.getOrCreateContainer(partition, bucket)
	if err != nil {
		return err
	}

	if err := container.writer.Compact(full); err != nil {
		return errors.Wrapf(err, "compact partition %q bucket %d", partition, bucket)
	}

	return nil
}

// NotifyNewFiles merges externally produced compaction output into the
// writer of the pair. Files from snapshots at or before the writer's base
// snapshot were already picked up by its restore scan and are silently
// dropped.
func (s *Session[T]) NotifyNewFiles(snapshotID int64, partition partitionkey.Key,
	bucket int, files []filemeta.DataFileMeta,
) error {
	if s.status == storagestate.StatusShutdown {
		return storagestate.ErrStatusShutdown
	}

	container, err := s.getOrCreateContainer(partition, bucket)
	if err != nil {
		return err
	}

	if snapshotID <= container.baseSnapshotID {
		s.logger.WithField("action", "file_store_notify_new_files").
			WithField("partition", partition.String()).
			WithField("bucket", bucket).
			WithField("snapshot_id", snapshotID).
			WithField("base_snapshot_id", container.baseSnapshotID).
			Debug("dropped stale file notification")
		return nil
	}

	container.writer.AddNewFiles(files)
	return nil
}

func (s *Session[T]) getOrCreateContainer(partition partitionkey.Key,
	bucket int,
) (*writerContainer[T], error) {
	// partition is a value-equality key with a string-backed owned copy of
	// the caller's buffers, so repeated calls with equal tuples hit the
	// same entry and the caller may reuse its buffers afterwards.
	buckets, ok := s.writers[partition]
	if !ok {
		buckets = map[int]*writerContainer[T]{}
		s.writers[partition] = buckets
	}

	container, ok := buckets[bucket]
	if !ok {
		var err error
		container, err = s.createWriterContainer(partition, bucket, s.ignorePreviousFiles)
		if err != nil {
			// leave no partial entry behind, a retry must start clean
			if len(buckets) == 0 {
				delete(s.writers, partition)
			}
			return nil, err
		}
		buckets[bucket] = container
	}

	return container, nil
}

func (s *Session[T]) createWriterContainer(partition partitionkey.Key, bucket int,
	ignorePreviousFiles bool,
) (*writerContainer[T], error) {
	s.logger.WithField("action", "file_store_create_writer").
		WithField("partition", partition.String()).
		WithField("bucket", bucket).
		Debug("creating writer")

	latestSnapshot, hasSnapshot, err := s.snapshots.LatestSnapshotID()
	if err != nil {
		return nil, errors.Wrapf(err, "latest snapshot for partition %q bucket %d",
			partition, bucket)
	}

	var restoreFiles []filemeta.DataFileMeta
	if !ignorePreviousFiles && hasSnapshot {
		restoreFiles, err = s.scan.ListFiles(latestSnapshot, partition, bucket)
		if err != nil {
			return nil, errors.Wrapf(err, "scan existing files of partition %q bucket %d",
				partition, bucket)
		}
	}

	var maintainer IndexMaintainer[T]
	if s.indexFactory != nil {
		var restoreSnapshot *int64
		if !ignorePreviousFiles && hasSnapshot {
			restoreSnapshot = &latestSnapshot
		}
		maintainer, err = s.indexFactory.CreateOrRestore(restoreSnapshot, partition, bucket)
		if err != nil {
			return nil, errors.Wrapf(err, "restore index maintainer of partition %q bucket %d",
				partition, bucket)
		}
	}

	writer, err := s.factory.CreateWriter(partition, bucket, restoreFiles, nil,
		s.compactionLane(), s.resources(partition, bucket))
	if err != nil {
		return nil, errors.Wrapf(err, "create writer for partition %q bucket %d",
			partition, bucket)
	}
	s.notifyNewWriter(writer)

	baseSnapshotID := filemeta.NoSnapshotID
	if hasSnapshot {
		baseSnapshotID = latestSnapshot
	}

	s.metrics.WriterCreated()
	return &writerContainer[T]{
		writer:                       writer,
		indexMaintainer:              maintainer,
		baseSnapshotID:               baseSnapshotID,
		lastModifiedCommitIdentifier: filemeta.NoCommitIdentifier,
	}, nil
}

func (s *Session[T]) notifyNewWriter(writer RecordWriter[T]) {
	if s.onNewWriter != nil {
		s.onNewWriter(writer)
	}
}

func (s *Session[T]) resources(partition partitionkey.Key, bucket int) Resources {
	return Resources{
		IOManager:     s.ioManager,
		MemoryPool:    s.memoryPool,
		Metrics:       s.metrics.CompactionMetrics(partition.String(), bucket),
		StreamingMode: s.streamingMode,
	}
}

// compactionLane returns the session's shared lane, creating an owned one
// on first need. Every writer of the session is handed the same lane.
func (s *Session[T]) compactionLane() *tasklane.Lane {
	if s.lane == nil {
		s.lane = tasklane.New(compactionLaneQueueLen)
		s.terminateLaneOnClose = true
	}
	return s.lane
}

// CompactionLane exposes the session's lane, or nil if none was attached or
// lazily created yet.
func (s *Session[T]) CompactionLane() *tasklane.Lane {
	return s.lane
}

// CompactionMetrics returns the metrics handle for one partition/bucket
// pair, or nil when no metrics sink is attached.
func (s *Session[T]) CompactionMetrics(partition partitionkey.Key, bucket int) *CompactionMetrics {
	return s.metrics.CompactionMetrics(partition.String(), bucket)
}

// Close closes every registered writer, best effort: a failing writer does
// not prevent the drain of the remaining ones. An owned compaction lane is
// terminated immediately, abandoning queued tasks; an externally supplied
// lane is left untouched.
func (s *Session[T]) Close() error {
	if s.status == storagestate.StatusShutdown {
		return nil
	}

	ec := errorcompounder.New()
	for _, partition := range s.sortedPartitions() {
		buckets := s.writers[partition]
		for _, bucket := range sortedBuckets(buckets) {
			if err := buckets[bucket].writer.Close(); err != nil {
				ec.AddWrapf(err, "close writer of partition %q bucket %d",
					partition, bucket)
			}
			s.metrics.WriterClosed()
		}
	}
	s.writers = map[partitionkey.Key]map[int]*writerContainer[T]{}

	if s.lane != nil && s.terminateLaneOnClose {
		s.lane.Terminate()
	}

	s.status = storagestate.StatusShutdown
	return ec.ToError()
}

// sortedPartitions returns the registered partition keys in lexicographic
// order of their encoded bytes. Together with ascending bucket order this
// fixes the commit-message and checkpoint ordering.
func (s *Session[T]) sortedPartitions() []partitionkey.Key {
	keys := make([]partitionkey.Key, 0, len(s.writers))
	for k := range s.writers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
	return keys
}

func sortedBuckets[T any](buckets map[int]*writerContainer[T]) []int {
	ids := make([]int, 0, len(buckets))
	for b := range buckets {
		ids = append(ids, b)
	}
	sort.Ints(ids)
	return ids
}

func (s *Session[T]) writerCount() int {
	count := 0
	for _, buckets := range s.writers {
		count += len(buckets)
	}
	return count
}
