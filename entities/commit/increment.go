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

// Package commit defines the units of output a table-write session hands to
// the transaction-commit layer: per-writer increments and per
// partition/bucket commit messages.
package commit

import "github.com/weaviate/driftlake/entities/filemeta"

// FilesIncrement lists the data files newly written (and, for writers that
// retract, deleted) since the last commit preparation.
type FilesIncrement struct {
	NewFiles     []filemeta.DataFileMeta
	DeletedFiles []filemeta.DataFileMeta
}

func (i FilesIncrement) Empty() bool {
	return len(i.NewFiles) == 0 && len(i.DeletedFiles) == 0
}

// CompactIncrement lists the files replaced (Before) and produced (After)
// by compactions that settled since the last commit preparation.
type CompactIncrement struct {
	Before []filemeta.DataFileMeta
	After  []filemeta.DataFileMeta
}

func (i CompactIncrement) Empty() bool {
	return len(i.Before) == 0 && len(i.After) == 0
}

// IndexIncrement lists new secondary-index files.
type IndexIncrement struct {
	NewFiles []filemeta.IndexFileMeta
}

func (i IndexIncrement) Empty() bool {
	return len(i.NewFiles) == 0
}

// Increment is the output of one writer's commit preparation. It is passed
// through the session core untouched.
type Increment struct {
	Files   FilesIncrement
	Compact CompactIncrement
}

func (i Increment) Empty() bool {
	return i.Files.Empty() && i.Compact.Empty()
}
