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
	"github.com/weaviate/driftlake/entities/commit"
	"github.com/weaviate/driftlake/entities/filemeta"
	"github.com/weaviate/driftlake/entities/partitionkey"
	"github.com/weaviate/driftlake/entities/tasklane"
)

// RecordWriter buffers, sorts and flushes the records of a single
// partition/bucket pair. Implementations come from the concrete storage
// format, the session core only drives their lifecycle.
//
// A writer must tolerate foreground calls (Write, Compact, PrepareCommit)
// while a compaction task it scheduled on the session lane is still in
// flight. That serialization is the writer's responsibility, the session
// performs no locking around it.
type RecordWriter[T any] interface {
	// Write adds a record to the writer's buffer.
	Write(record T) error

	// Compact requests a compaction of the writer's files. With full set,
	// every file is rewritten, not just the pick of the compaction
	// strategy. The writer may run the compaction synchronously or schedule
	// it on the session's task lane.
	Compact(full bool) error

	// AddNewFiles merges externally produced compaction output into the
	// writer's file set.
	AddNewFiles(files []filemeta.DataFileMeta)

	// DataFiles returns the writer's current full data-file set.
	DataFiles() []filemeta.DataFileMeta

	// PrepareCommit collects everything written or compacted since the last
	// call. With waitCompaction set it blocks until an in-flight background
	// compaction has settled.
	PrepareCommit(waitCompaction bool) (commit.Increment, error)

	// Close frees the writer's resources. Output not collected by a prior
	// PrepareCommit is discarded.
	Close() error
}

// Resources carries the session-scoped shared resources a writer may use.
// They are resolved once at writer-creation time; attaching a resource to
// the session later does not retroactively reach existing writers.
type Resources struct {
	IOManager     IOManager
	MemoryPool    MemoryPool
	Metrics       *CompactionMetrics
	StreamingMode bool
}

// WriterFactory constructs ready-to-use writers for a concrete storage
// format. CreateWriter must be deterministic given identical inputs; it may
// access the file system.
//
// restoreIncrement is nil except on the restore-from-checkpoint path, where
// it carries commit output that was prepared but not yet committed when the
// checkpoint was taken.
type WriterFactory[T any] interface {
	CreateWriter(partition partitionkey.Key, bucket int,
		restoreFiles []filemeta.DataFileMeta, restoreIncrement *commit.Increment,
		lane *tasklane.Lane, res Resources) (RecordWriter[T], error)
}

// FileScanner lists the data files physically backing a partition/bucket
// pair at a given snapshot, via the table's manifests.
type FileScanner interface {
	ListFiles(snapshotID int64, partition partitionkey.Key,
		bucket int) ([]filemeta.DataFileMeta, error)
}

// SnapshotManager exposes the table's committed history.
type SnapshotManager interface {
	// LatestSnapshotID returns the most recent committed snapshot id, or
	// ok=false when the table has never been committed to.
	LatestSnapshotID() (id int64, ok bool, err error)

	// LatestCommittedIdentifier returns the commit identifier of the most
	// recent snapshot committed by the given commit user, or ok=false when
	// that user never committed.
	LatestCommittedIdentifier(commitUser string) (id int64, ok bool, err error)
}

// IndexMaintainer keeps a secondary index in sync with the records written
// to one partition/bucket pair.
type IndexMaintainer[T any] interface {
	NotifyNewRecord(record T) error
	PrepareCommit() ([]filemeta.IndexFileMeta, error)
}

// IndexMaintainerFactory creates or restores index maintainers. snapshotID
// is nil when there is no prior snapshot to restore from.
type IndexMaintainerFactory[T any] interface {
	CreateOrRestore(snapshotID *int64, partition partitionkey.Key,
		bucket int) (IndexMaintainer[T], error)
}

// IOManager hands out scratch space for writers that spill sort buffers to
// disk. It is owned by the caller, the session only passes it through.
type IOManager interface {
	ScratchDir() string
}

// MemoryPool caps the combined in-memory buffer usage of all writers
// sharing it. Implementations must be safe for concurrent use, writers
// reserve and release from both foreground and compaction code.
type MemoryPool interface {
	Reserve(bytes int64) bool
	Release(bytes int64)
}
