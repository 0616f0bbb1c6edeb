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

// Package byteops provides helper functions to (un-) marshal objects from or
// into a buffer
package byteops

import (
	"encoding/binary"
	"errors"
)

const (
	Uint64Len = 8
	Uint32Len = 4
	Uint16Len = 2
	Uint8Len  = 1
)

var ErrBufferOverflow = errors.New("buffer overflow")

type ReadWriter struct {
	Position uint64
	Buffer   []byte
}

func NewReadWriter(buf []byte) ReadWriter {
	return ReadWriter{Buffer: buf}
}

func (bo *ReadWriter) ResetBuffer(buf []byte) {
	bo.Buffer = buf
	bo.Position = 0
}

func (bo *ReadWriter) ReadUint64() uint64 {
	bo.Position += Uint64Len
	return binary.LittleEndian.Uint64(bo.Buffer[bo.Position-Uint64Len : bo.Position])
}

func (bo *ReadWriter) ReadUint32() uint32 {
	bo.Position += Uint32Len
	return binary.LittleEndian.Uint32(bo.Buffer[bo.Position-Uint32Len : bo.Position])
}

func (bo *ReadWriter) ReadUint16() uint16 {
	bo.Position += Uint16Len
	return binary.LittleEndian.Uint16(bo.Buffer[bo.Position-Uint16Len : bo.Position])
}

func (bo *ReadWriter) ReadUint8() uint8 {
	bo.Position += Uint8Len
	return bo.Buffer[bo.Position-Uint8Len]
}

// ReadInt64 reads a two's-complement int64, the signed counterpart of
// ReadUint64. Negative values (e.g. sentinel identifiers) survive the round
// trip unchanged.
func (bo *ReadWriter) ReadInt64() int64 {
	return int64(bo.ReadUint64())
}

// ReadBytesWithUint32LengthIndicator returns a subslice of the underlying
// buffer, not a copy. Callers that retain the result past the lifetime of
// the buffer must copy it themselves.
func (bo *ReadWriter) ReadBytesWithUint32LengthIndicator() []byte {
	bufLen := uint64(bo.ReadUint32())
	bo.Position += bufLen
	return bo.Buffer[bo.Position-bufLen : bo.Position]
}

func (bo *ReadWriter) ReadStringWithUint32LengthIndicator() string {
	return string(bo.ReadBytesWithUint32LengthIndicator())
}

func (bo *ReadWriter) WriteUint64(value uint64) {
	bo.Position += Uint64Len
	binary.LittleEndian.PutUint64(bo.Buffer[bo.Position-Uint64Len:bo.Position], value)
}

func (bo *ReadWriter) WriteUint32(value uint32) {
	bo.Position += Uint32Len
	binary.LittleEndian.PutUint32(bo.Buffer[bo.Position-Uint32Len:bo.Position], value)
}

func (bo *ReadWriter) WriteUint16(value uint16) {
	bo.Position += Uint16Len
	binary.LittleEndian.PutUint16(bo.Buffer[bo.Position-Uint16Len:bo.Position], value)
}

func (bo *ReadWriter) WriteUint8(value uint8) {
	bo.Position += Uint8Len
	bo.Buffer[bo.Position-Uint8Len] = value
}

func (bo *ReadWriter) WriteInt64(value int64) {
	bo.WriteUint64(uint64(value))
}

// WriteBytesWithUint32LengthIndicator writes a uint32 length indicator about
// the buffer that's about to follow, then writes the buffer itself
func (bo *ReadWriter) WriteBytesWithUint32LengthIndicator(copyBytes []byte) error {
	bo.WriteUint32(uint32(len(copyBytes)))
	lenCopyBytes := uint64(len(copyBytes))
	bo.Position += lenCopyBytes
	numCopiedBytes := copy(bo.Buffer[bo.Position-lenCopyBytes:bo.Position], copyBytes)
	if numCopiedBytes != int(lenCopyBytes) {
		return ErrBufferOverflow
	}
	return nil
}

func (bo *ReadWriter) WriteStringWithUint32LengthIndicator(s string) error {
	return bo.WriteBytesWithUint32LengthIndicator([]byte(s))
}
