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

// Package filemeta holds the metadata records for the physical files a
// table-write session produces and tracks. The session core never touches
// file contents, it only moves these records around.
package filemeta

import (
	"math"

	"github.com/weaviate/driftlake/usecases/byteops"
)

const (
	// FirstSnapshotID is the id of the first snapshot ever committed to a
	// table. Snapshot ids grow monotonically from here.
	FirstSnapshotID int64 = 1

	// NoSnapshotID marks a writer created before any snapshot existed for
	// its partition/bucket.
	NoSnapshotID = FirstSnapshotID - 1

	// NoCommitIdentifier marks a writer that has never produced a non-empty
	// commit message.
	NoCommitIdentifier int64 = math.MinInt64
)

// DataFileMeta describes one immutable data file owned by a bucket writer.
type DataFileMeta struct {
	Name        string
	Size        int64
	RowCount    int64
	MinSequence int64
	MaxSequence int64
	Level       int32

	// CreationEpochMillis is the wall-clock creation time of the file,
	// unix epoch milliseconds.
	CreationEpochMillis int64
}

// IndexFileMeta describes one secondary-index file produced by an index
// maintainer alongside the data files of a bucket.
type IndexFileMeta struct {
	Name     string
	Size     int64
	RowCount int64
}

func (m DataFileMeta) marshalledLen() int {
	return byteops.Uint32Len + len(m.Name) + 5*byteops.Uint64Len + byteops.Uint32Len
}

func (m DataFileMeta) marshalTo(bo *byteops.ReadWriter) error {
	if err := bo.WriteStringWithUint32LengthIndicator(m.Name); err != nil {
		return err
	}
	bo.WriteInt64(m.Size)
	bo.WriteInt64(m.RowCount)
	bo.WriteInt64(m.MinSequence)
	bo.WriteInt64(m.MaxSequence)
	bo.WriteUint32(uint32(m.Level))
	bo.WriteInt64(m.CreationEpochMillis)
	return nil
}

func unmarshalDataFileMeta(bo *byteops.ReadWriter) DataFileMeta {
	return DataFileMeta{
		Name:                bo.ReadStringWithUint32LengthIndicator(),
		Size:                bo.ReadInt64(),
		RowCount:            bo.ReadInt64(),
		MinSequence:         bo.ReadInt64(),
		MaxSequence:         bo.ReadInt64(),
		Level:               int32(bo.ReadUint32()),
		CreationEpochMillis: bo.ReadInt64(),
	}
}

func (m IndexFileMeta) marshalledLen() int {
	return byteops.Uint32Len + len(m.Name) + 2*byteops.Uint64Len
}

func (m IndexFileMeta) marshalTo(bo *byteops.ReadWriter) error {
	if err := bo.WriteStringWithUint32LengthIndicator(m.Name); err != nil {
		return err
	}
	bo.WriteInt64(m.Size)
	bo.WriteInt64(m.RowCount)
	return nil
}

func unmarshalIndexFileMeta(bo *byteops.ReadWriter) IndexFileMeta {
	return IndexFileMeta{
		Name:     bo.ReadStringWithUint32LengthIndicator(),
		Size:     bo.ReadInt64(),
		RowCount: bo.ReadInt64(),
	}
}

// MarshalledDataFilesLen returns the encoded size of a data-file list
// including its count indicator.
func MarshalledDataFilesLen(files []DataFileMeta) int {
	size := byteops.Uint32Len
	for _, f := range files {
		size += f.marshalledLen()
	}
	return size
}

// MarshalDataFiles appends a length-prefixed data-file list to bo.
func MarshalDataFiles(bo *byteops.ReadWriter, files []DataFileMeta) error {
	bo.WriteUint32(uint32(len(files)))
	for _, f := range files {
		if err := f.marshalTo(bo); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalDataFiles reads a list previously written by MarshalDataFiles.
func UnmarshalDataFiles(bo *byteops.ReadWriter) []DataFileMeta {
	count := int(bo.ReadUint32())
	if count == 0 {
		return nil
	}

	files := make([]DataFileMeta, count)
	for i := 0; i < count; i++ {
		files[i] = unmarshalDataFileMeta(bo)
	}
	return files
}

// MarshalledIndexFilesLen returns the encoded size of an index-file list
// including its count indicator.
func MarshalledIndexFilesLen(files []IndexFileMeta) int {
	size := byteops.Uint32Len
	for _, f := range files {
		size += f.marshalledLen()
	}
	return size
}

// MarshalIndexFiles appends a length-prefixed index-file list to bo.
func MarshalIndexFiles(bo *byteops.ReadWriter, files []IndexFileMeta) error {
	bo.WriteUint32(uint32(len(files)))
	for _, f := range files {
		if err := f.marshalTo(bo); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalIndexFiles reads a list previously written by MarshalIndexFiles.
func UnmarshalIndexFiles(bo *byteops.ReadWriter) []IndexFileMeta {
	count := int(bo.ReadUint32())
	if count == 0 {
		return nil
	}

	files := make([]IndexFileMeta, count)
	for i := 0; i < count; i++ {
		files[i] = unmarshalIndexFileMeta(bo)
	}
	return files
}
