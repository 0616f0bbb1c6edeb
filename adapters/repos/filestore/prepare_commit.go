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
	"github.com/weaviate/driftlake/entities/storagestate"
)

// PrepareCommit collects one commit message per live writer, in partition
// key order, buckets ascending. With waitCompaction set, each writer blocks
// until its in-flight background compaction has settled.
//
// commitIdentifier is the caller-assigned sequence number of this logical
// unit of write work. Writers whose message is empty and whose last
// modification is confirmed committed are closed and removed, bounding the
// growth of idle writers for partitions no longer receiving writes.
//
// On error, no eviction or identifier update has happened for any pair
// after the failure point, so a retry is safe.
func (s *Session[T]) PrepareCommit(waitCompaction bool,
	commitIdentifier int64,
) ([]commit.Message, error) {
	if s.status == storagestate.StatusShutdown {
		return nil, storagestate.ErrStatusShutdown
	}

	latestCommitted, err := s.latestCommittedIdentifier()
	if err != nil {
		return nil, err
	}

	var result []commit.Message

	for _, partition := range s.sortedPartitions() {
		buckets := s.writers[partition]
		for _, bucket := range sortedBuckets(buckets) {
			container := buckets[bucket]

			increment, err := container.writer.PrepareCommit(waitCompaction)
			if err != nil {
				return nil, errors.Wrapf(err, "prepare commit of partition %q bucket %d",
					partition, bucket)
			}

			var indexFiles []filemeta.IndexFileMeta
			if container.indexMaintainer != nil {
				indexFiles, err = container.indexMaintainer.PrepareCommit()
				if err != nil {
					return nil, errors.Wrapf(err, "prepare index commit of partition %q bucket %d",
						partition, bucket)
				}
			}

			message := commit.Message{
				Partition: partition,
				Bucket:    bucket,
				Files:     increment.Files,
				Compact:   increment.Compact,
				Index:     commit.IndexIncrement{NewFiles: indexFiles},
			}
			result = append(result, message)

			if message.Empty() {
				if container.lastModifiedCommitIdentifier <= latestCommitted {
					// The writer produced nothing new and everything it
					// ever produced is durably committed. Without this
					// eviction the registry would keep one writer per
					// partition ever written to, e.g. yesterday's
					// partitions in a daily-partitioned stream.
					s.logger.WithField("action", "file_store_evict_writer").
						WithField("partition", partition.String()).
						WithField("bucket", bucket).
						WithField("last_modified_identifier", container.lastModifiedCommitIdentifier).
						WithField("latest_committed_identifier", latestCommitted).
						WithField("commit_identifier", commitIdentifier).
						Debug("closing idle writer")

					if err := container.writer.Close(); err != nil {
						return nil, errors.Wrapf(err, "close evicted writer of partition %q bucket %d",
							partition, bucket)
					}
					delete(buckets, bucket)
					s.metrics.WriterClosed()
				}
			} else {
				container.lastModifiedCommitIdentifier = commitIdentifier
			}
		}

		if len(buckets) == 0 {
			delete(s.writers, partition)
		}
	}

	return result, nil
}

// latestCommittedIdentifier resolves the most recent commit identifier
// confirmed committed under this session's commit user, used solely to
// decide eviction eligibility.
func (s *Session[T]) latestCommittedIdentifier() (int64, error) {
	// First-commit shortcut: if no writer was ever modified, nothing can be
	// evicted and the answer would not matter. Skipping the lookup avoids
	// scanning the whole commit history just to learn that this user never
	// committed.
	if !s.anyWriterModified() {
		return filemeta.NoCommitIdentifier, nil
	}

	id, ok, err := s.snapshots.LatestCommittedIdentifier(s.commitUser)
	if err != nil {
		return 0, errors.Wrapf(err, "latest committed identifier of user %q", s.commitUser)
	}
	if !ok {
		return filemeta.NoCommitIdentifier, nil
	}
	return id, nil
}

func (s *Session[T]) anyWriterModified() bool {
	for _, buckets := range s.writers {
		for _, container := range buckets {
			if container.lastModifiedCommitIdentifier != filemeta.NoCommitIdentifier {
				return true
			}
		}
	}
	return false
}
