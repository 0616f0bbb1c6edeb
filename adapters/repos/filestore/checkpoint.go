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
	"github.com/pkg/errors"

	"github.com/weaviate/driftlake/entities/commit"
	"github.com/weaviate/driftlake/entities/filemeta"
	"github.com/weaviate/driftlake/entities/partitionkey"
	"github.com/weaviate/driftlake/entities/storagestate"
)

// State is the recoverable snapshot of one writer container: everything
// needed to rebuild it after a crash without losing or double-counting
// output.
type State[T any] struct {
	Partition partitionkey.Key
	Bucket    int

	BaseSnapshotID               int64
	LastModifiedCommitIdentifier int64

	// DataFiles is the writer's full current file set at checkpoint time.
	DataFiles []filemeta.DataFileMeta

	IndexMaintainer IndexMaintainer[T] // nil when index maintenance is disabled

	// Increment carries output that was prepared but not yet committed when
	// the checkpoint was taken. Restore hands it back to the writer factory
	// so the next PrepareCommit re-emits it.
	Increment commit.Increment
}

// Checkpoint externalizes the state of every live writer, one State per
// partition/bucket pair, ordered by partition key, buckets ascending. It
// does not close or evict anything: registry membership is untouched.
//
// A failing writer aborts the whole checkpoint. A partially extracted
// checkpoint must never be handed to the fault-tolerance layer.
func (s *Session[T]) Checkpoint() ([]State[T], error) {
	if s.status == storagestate.StatusShutdown {
		return nil, storagestate.ErrStatusShutdown
	}

	result := make([]State[T], 0, s.writerCount())

	for _, partition := range s.sortedPartitions() {
		buckets := s.writers[partition]
		for _, bucket := range sortedBuckets(buckets) {
			container := buckets[bucket]

			increment, err := container.writer.PrepareCommit(false)
			if err != nil {
				return nil, errors.Wrapf(err, "extract state from writer of partition %q bucket %d",
					partition, bucket)
			}

			// DataFiles must be read after PrepareCommit: preparing the
			// commit may fold a settled compaction result into the
			// writer's file set.
			dataFiles := container.writer.DataFiles()

			result = append(result, State[T]{
				Partition:                    partition,
				Bucket:                       bucket,
				BaseSnapshotID:               container.baseSnapshotID,
				LastModifiedCommitIdentifier: container.lastModifiedCommitIdentifier,
				DataFiles:                    append([]filemeta.DataFileMeta(nil), dataFiles...),
				IndexMaintainer:              container.indexMaintainer,
				Increment:                    increment,
			})
		}
	}

	s.logger.WithField("action", "file_store_checkpoint").
		WithField("states", len(result)).
		Debug("extracted writer states")

	return result, nil
}

// Restore rebuilds the registry from checkpointed states. It must complete
// before any Write, Compact or PrepareCommit call on a recovering session.
func (s *Session[T]) Restore(states []State[T]) error {
	if s.status == storagestate.StatusShutdown {
		return storagestate.ErrStatusShutdown
	}

	for _, state := range states {
		increment := state.Increment
		writer, err := s.factory.CreateWriter(state.Partition, state.Bucket,
			state.DataFiles, &increment, s.compactionLane(),
			s.resources(state.Partition, state.Bucket))
		if err != nil {
			return errors.Wrapf(err, "restore writer of partition %q bucket %d",
				state.Partition, state.Bucket)
		}
		s.notifyNewWriter(writer)

		container := &writerContainer[T]{
			writer:                       writer,
			indexMaintainer:              state.IndexMaintainer,
			baseSnapshotID:               state.BaseSnapshotID,
			lastModifiedCommitIdentifier: state.LastModifiedCommitIdentifier,
		}

		buckets, ok := s.writers[state.Partition]
		if !ok {
			buckets = map[int]*writerContainer[T]{}
			s.writers[state.Partition] = buckets
		}
		buckets[state.Bucket] = container
		s.metrics.WriterCreated()
	}

	return nil
}
