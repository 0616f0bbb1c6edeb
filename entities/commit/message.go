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

package commit

import (
	"fmt"

	"github.com/weaviate/driftlake/entities/partitionkey"
)

// Message bundles everything one partition/bucket pair contributes to a
// table transaction: the file increment, the compaction increment and the
// secondary-index increment.
type Message struct {
	Partition partitionkey.Key
	Bucket    int

	Files   FilesIncrement
	Compact CompactIncrement
	Index   IndexIncrement
}

// Empty reports whether the message carries no file, compaction or index
// changes. Empty messages are still emitted, the commit layer needs them to
// track commit-identifier progress per bucket.
func (m Message) Empty() bool {
	return m.Files.Empty() && m.Compact.Empty() && m.Index.Empty()
}

func (m Message) String() string {
	return fmt.Sprintf("commit message for partition %q bucket %d: "+
		"%d new files, %d deleted files, %d compacted before, %d compacted after, %d index files",
		m.Partition, m.Bucket, len(m.Files.NewFiles), len(m.Files.DeletedFiles),
		len(m.Compact.Before), len(m.Compact.After), len(m.Index.NewFiles))
}
