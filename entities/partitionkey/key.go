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

// Package partitionkey models the identity of a table partition: an
// immutable tuple of partition column values. Keys compare by value and can
// therefore be used directly as map keys.
package partitionkey

import (
	"strings"

	"github.com/weaviate/driftlake/usecases/byteops"
)

// Key is an owned, immutable copy of a partition tuple. The zero value is
// the empty partition of an unpartitioned table.
//
// The caller-supplied buffers passed into New or FromBytes may be reused or
// mutated after the call, the Key never aliases them.
type Key struct {
	encoded string
}

// New builds a Key from the ordered partition column values.
func New(values ...[]byte) Key {
	if len(values) == 0 {
		return Key{}
	}

	size := byteops.Uint16Len
	for _, v := range values {
		size += byteops.Uint32Len + len(v)
	}

	bo := byteops.NewReadWriter(make([]byte, size))
	bo.WriteUint16(uint16(len(values)))
	for _, v := range values {
		// cannot overflow, the buffer was sized above
		bo.WriteBytesWithUint32LengthIndicator(v)
	}

	return Key{encoded: string(bo.Buffer)}
}

// FromBytes reconstructs a Key from a previous Bytes() result. The input is
// copied.
func FromBytes(encoded []byte) Key {
	return Key{encoded: string(encoded)}
}

// Bytes returns the canonical encoding of the tuple, suitable for
// FromBytes and for lexicographic ordering.
func (k Key) Bytes() []byte {
	return []byte(k.encoded)
}

// Values decodes the ordered column values. The returned slices are copies.
func (k Key) Values() [][]byte {
	if k.encoded == "" {
		return nil
	}

	bo := byteops.NewReadWriter([]byte(k.encoded))
	count := int(bo.ReadUint16())
	values := make([][]byte, count)
	for i := 0; i < count; i++ {
		v := bo.ReadBytesWithUint32LengthIndicator()
		values[i] = append([]byte(nil), v...)
	}

	return values
}

// Less orders keys lexicographically by their canonical encoding. The
// registry iterates partitions in this order to keep commit-message and
// checkpoint ordering deterministic.
func (k Key) Less(other Key) bool {
	return k.encoded < other.encoded
}

// String renders the tuple as a path-style string, e.g. "2025-08-30/eu".
// The empty partition renders as "".
func (k Key) String() string {
	values := k.Values()
	if len(values) == 0 {
		return ""
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, "/")
}
