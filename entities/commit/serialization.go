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
	"github.com/pkg/errors"
	"github.com/weaviate/driftlake/entities/filemeta"
	"github.com/weaviate/driftlake/entities/partitionkey"
	"github.com/weaviate/driftlake/usecases/byteops"
)

// serialVersion guards against mixing encodings across releases. Bump on
// any layout change.
const serialVersion = uint8(1)

// Marshal encodes the message for the transaction log.
func (m Message) Marshal() ([]byte, error) {
	partition := m.Partition.Bytes()

	size := byteops.Uint8Len +
		byteops.Uint32Len + len(partition) +
		byteops.Uint64Len +
		filemeta.MarshalledDataFilesLen(m.Files.NewFiles) +
		filemeta.MarshalledDataFilesLen(m.Files.DeletedFiles) +
		filemeta.MarshalledDataFilesLen(m.Compact.Before) +
		filemeta.MarshalledDataFilesLen(m.Compact.After) +
		filemeta.MarshalledIndexFilesLen(m.Index.NewFiles)

	bo := byteops.NewReadWriter(make([]byte, size))
	bo.WriteUint8(serialVersion)
	if err := bo.WriteBytesWithUint32LengthIndicator(partition); err != nil {
		return nil, errors.Wrap(err, "marshal partition key")
	}
	bo.WriteInt64(int64(m.Bucket))

	for _, files := range [][]filemeta.DataFileMeta{
		m.Files.NewFiles, m.Files.DeletedFiles, m.Compact.Before, m.Compact.After,
	} {
		if err := filemeta.MarshalDataFiles(&bo, files); err != nil {
			return nil, errors.Wrap(err, "marshal data files")
		}
	}
	if err := filemeta.MarshalIndexFiles(&bo, m.Index.NewFiles); err != nil {
		return nil, errors.Wrap(err, "marshal index files")
	}

	return bo.Buffer, nil
}

// UnmarshalMessage decodes a message previously encoded with Marshal.
func UnmarshalMessage(buf []byte) (Message, error) {
	bo := byteops.NewReadWriter(buf)

	if version := bo.ReadUint8(); version != serialVersion {
		return Message{}, errors.Errorf("unsupported commit message version %d", version)
	}

	var m Message
	m.Partition = partitionkey.FromBytes(bo.ReadBytesWithUint32LengthIndicator())
	m.Bucket = int(bo.ReadInt64())
	m.Files.NewFiles = filemeta.UnmarshalDataFiles(&bo)
	m.Files.DeletedFiles = filemeta.UnmarshalDataFiles(&bo)
	m.Compact.Before = filemeta.UnmarshalDataFiles(&bo)
	m.Compact.After = filemeta.UnmarshalDataFiles(&bo)
	m.Index.NewFiles = filemeta.UnmarshalIndexFiles(&bo)

	return m, nil
}
