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
	"fmt"

	"github.com/weaviate/driftlake/entities/commit"
	"github.com/weaviate/driftlake/entities/filemeta"
	"github.com/weaviate/driftlake/entities/partitionkey"
	"github.com/weaviate/driftlake/entities/tasklane"
)

// fakeWriter is an in-memory RecordWriter used by the session tests. Each
// PrepareCommit turns the records buffered since the last call into one new
// data file.
type fakeWriter struct {
	partition partitionkey.Key
	bucket    int

	buffered []string
	files    []filemeta.DataFileMeta
	fileSeq  int

	// restoreIncrement is re-emitted on the next PrepareCommit, mirroring a
	// real writer resuming in-flight output after a checkpoint restore.
	restoreIncrement *commit.Increment

	// pendingCompact simulates a background compaction that settled but is
	// only folded into the file set by the next PrepareCommit.
	pendingCompact *commit.CompactIncrement

	compactCalls []bool
	waitFlags    []bool
	addedFiles   []filemeta.DataFileMeta

	writeErr   error
	compactErr error
	prepareErr error
	closeErr   error
	closed     bool
}

func (w *fakeWriter) Write(record string) error {
	if w.writeErr != nil {
		return w.writeErr
	}
	w.buffered = append(w.buffered, record)
	return nil
}

func (w *fakeWriter) Compact(full bool) error {
	if w.compactErr != nil {
		return w.compactErr
	}
	w.compactCalls = append(w.compactCalls, full)
	return nil
}

func (w *fakeWriter) AddNewFiles(files []filemeta.DataFileMeta) {
	w.addedFiles = append(w.addedFiles, files...)
	w.files = append(w.files, files...)
}

func (w *fakeWriter) DataFiles() []filemeta.DataFileMeta {
	return append([]filemeta.DataFileMeta(nil), w.files...)
}

func (w *fakeWriter) PrepareCommit(waitCompaction bool) (commit.Increment, error) {
	w.waitFlags = append(w.waitFlags, waitCompaction)
	if w.prepareErr != nil {
		return commit.Increment{}, w.prepareErr
	}

	var increment commit.Increment
	if w.restoreIncrement != nil {
		increment = *w.restoreIncrement
		w.restoreIncrement = nil
	}

	if len(w.buffered) > 0 {
		file := filemeta.DataFileMeta{
			Name:     fmt.Sprintf("data-%s-%d-%d.sst", w.partition, w.bucket, w.fileSeq),
			Size:     int64(len(w.buffered) * 100),
			RowCount: int64(len(w.buffered)),
		}
		w.fileSeq++
		w.files = append(w.files, file)
		increment.Files.NewFiles = append(increment.Files.NewFiles, file)
		w.buffered = nil
	}

	if w.pendingCompact != nil {
		w.files = applyCompaction(w.files, *w.pendingCompact)
		increment.Compact = *w.pendingCompact
		w.pendingCompact = nil
	}

	return increment, nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return w.closeErr
}

func applyCompaction(files []filemeta.DataFileMeta,
	compact commit.CompactIncrement,
) []filemeta.DataFileMeta {
	replaced := map[string]bool{}
	for _, f := range compact.Before {
		replaced[f.Name] = true
	}

	out := make([]filemeta.DataFileMeta, 0, len(files))
	for _, f := range files {
		if !replaced[f.Name] {
			out = append(out, f)
		}
	}
	return append(out, compact.After...)
}

type createCall struct {
	partition        partitionkey.Key
	bucket           int
	restoreFiles     []filemeta.DataFileMeta
	restoreIncrement *commit.Increment
	lane             *tasklane.Lane
	res              Resources
}

type fakeFactory struct {
	calls   []createCall
	writers map[string]*fakeWriter

	failNext error
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{writers: map[string]*fakeWriter{}}
}

func writerKey(partition partitionkey.Key, bucket int) string {
	return fmt.Sprintf("%s|%d", partition, bucket)
}

func (f *fakeFactory) CreateWriter(partition partitionkey.Key, bucket int,
	restoreFiles []filemeta.DataFileMeta, restoreIncrement *commit.Increment,
	lane *tasklane.Lane, res Resources,
) (RecordWriter[string], error) {
	f.calls = append(f.calls, createCall{
		partition:        partition,
		bucket:           bucket,
		restoreFiles:     restoreFiles,
		restoreIncrement: restoreIncrement,
		lane:             lane,
		res:              res,
	})

	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}

	w := &fakeWriter{
		partition:        partition,
		bucket:           bucket,
		files:            append([]filemeta.DataFileMeta(nil), restoreFiles...),
		restoreIncrement: restoreIncrement,
	}
	f.writers[writerKey(partition, bucket)] = w
	return w, nil
}

func (f *fakeFactory) writer(partition partitionkey.Key, bucket int) *fakeWriter {
	return f.writers[writerKey(partition, bucket)]
}

type fakeSnapshots struct {
	latest    int64
	hasLatest bool
	latestErr error

	committed      map[string]int64
	committedCalls int
	committedErr   error
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{committed: map[string]int64{}}
}

func (s *fakeSnapshots) LatestSnapshotID() (int64, bool, error) {
	if s.latestErr != nil {
		return 0, false, s.latestErr
	}
	return s.latest, s.hasLatest, nil
}

func (s *fakeSnapshots) LatestCommittedIdentifier(commitUser string) (int64, bool, error) {
	s.committedCalls++
	if s.committedErr != nil {
		return 0, false, s.committedErr
	}
	id, ok := s.committed[commitUser]
	return id, ok, nil
}

type fakeScanner struct {
	files map[string][]filemeta.DataFileMeta
	calls []string
	err   error
}

func newFakeScanner() *fakeScanner {
	return &fakeScanner{files: map[string][]filemeta.DataFileMeta{}}
}

func scanKey(snapshotID int64, partition partitionkey.Key, bucket int) string {
	return fmt.Sprintf("%d|%s|%d", snapshotID, partition, bucket)
}

func (s *fakeScanner) ListFiles(snapshotID int64, partition partitionkey.Key,
	bucket int,
) ([]filemeta.DataFileMeta, error) {
	key := scanKey(snapshotID, partition, bucket)
	s.calls = append(s.calls, key)
	if s.err != nil {
		return nil, s.err
	}
	return s.files[key], nil
}

type fakeIndexMaintainer struct {
	notified   []string
	pending    []filemeta.IndexFileMeta
	prepareErr error
}

func (m *fakeIndexMaintainer) NotifyNewRecord(record string) error {
	m.notified = append(m.notified, record)
	return nil
}

func (m *fakeIndexMaintainer) PrepareCommit() ([]filemeta.IndexFileMeta, error) {
	if m.prepareErr != nil {
		return nil, m.prepareErr
	}
	pending := m.pending
	m.pending = nil
	return pending, nil
}

type restoreCall struct {
	snapshotID *int64
	partition  partitionkey.Key
	bucket     int
}

type fakeIndexFactory struct {
	calls       []restoreCall
	maintainers map[string]*fakeIndexMaintainer
}

func newFakeIndexFactory() *fakeIndexFactory {
	return &fakeIndexFactory{maintainers: map[string]*fakeIndexMaintainer{}}
}

func (f *fakeIndexFactory) CreateOrRestore(snapshotID *int64,
	partition partitionkey.Key, bucket int,
) (IndexMaintainer[string], error) {
	f.calls = append(f.calls, restoreCall{
		snapshotID: snapshotID,
		partition:  partition,
		bucket:     bucket,
	})

	m := &fakeIndexMaintainer{}
	f.maintainers[writerKey(partition, bucket)] = m
	return m, nil
}

type fakeIOManager struct {
	dir string
}

func (m *fakeIOManager) ScratchDir() string {
	return m.dir
}

type fakeMemoryPool struct {
	reserved int64
}

func (p *fakeMemoryPool) Reserve(bytes int64) bool {
	p.reserved += bytes
	return true
}

func (p *fakeMemoryPool) Release(bytes int64) {
	p.reserved -= bytes
}
