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

// writerContainer binds one record writer to its optional index maintainer,
// the snapshot its restore scan was computed against and the identifier of
// its last non-empty commit. The registry is the sole owner of every
// container.
type writerContainer[T any] struct {
	writer          RecordWriter[T]
	indexMaintainer IndexMaintainer[T] // nil unless index maintenance is configured

	// baseSnapshotID is filemeta.NoSnapshotID for writers created before
	// the table's first snapshot. NotifyNewFiles only applies files from
	// snapshots strictly newer than this.
	baseSnapshotID int64

	// lastModifiedCommitIdentifier starts at filemeta.NoCommitIdentifier
	// and is bumped to the current commit identifier whenever the writer
	// produces a non-empty commit message. A writer may only be evicted
	// once this identifier is confirmed committed.
	lastModifiedCommitIdentifier int64
}
