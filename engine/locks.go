package engine

import "sync"

// lockStripes is the number of mutexes the per-document lock table is
// sharded over. Documents hash onto stripes by ID; two documents on the
// same stripe serialize against each other, which is harmless.
const lockStripes = 64

// docLocks serializes mutations per document. A fixed stripe table
// avoids growing a map entry per document ID over the process lifetime.
type docLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *docLocks) lock(docID uint64) {
	l.stripes[docID%lockStripes].Lock()
}

func (l *docLocks) unlock(docID uint64) {
	l.stripes[docID%lockStripes].Unlock()
}
