package server

import (
	"bytes"
	"sync"
)

// Entries are usually a handful of short lines; anything that grew past
// maxPooledEntry (a large rejected request line, say) is left to the GC.
const maxPooledEntry = 64 << 10

var entryPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

func getEntryBuffer() *bytes.Buffer {
	buf := entryPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putEntryBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledEntry {
		return
	}
	entryPool.Put(buf)
}
