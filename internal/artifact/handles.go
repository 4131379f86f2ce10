package artifact

import (
	"sync"

	"github.com/google/uuid"
)

// HandleTable is the in-process resource table behind ephemeral
// rendering handles. A handle is valid only while its entry lives
// here; the table can be torn down (process reload, session teardown)
// independently of any artifact that still names the handle, which is
// exactly what the recovery protocol exists to repair.
type HandleTable struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewHandleTable() *HandleTable {
	return &HandleTable{blobs: make(map[string][]byte)}
}

// Put stores the bytes under a fresh handle and returns it.
func (t *HandleTable) Put(data []byte) string {
	id := uuid.NewString()
	t.mu.Lock()
	t.blobs[id] = data
	t.mu.Unlock()
	return id
}

// Get returns the bytes behind a handle, if it is still live.
func (t *HandleTable) Get(id string) ([]byte, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	data, ok := t.blobs[id]
	return data, ok
}

// Has reports whether the handle is live.
func (t *HandleTable) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.blobs[id]
	return ok
}

// Release drops a handle. Handles are a scarce shared resource, so a
// superseded handle is released as soon as its replacement exists.
func (t *HandleTable) Release(id string) {
	if id == "" {
		return
	}
	t.mu.Lock()
	delete(t.blobs, id)
	t.mu.Unlock()
}

// Reset drops every handle, the way a process reload does.
func (t *HandleTable) Reset() {
	t.mu.Lock()
	t.blobs = make(map[string][]byte)
	t.mu.Unlock()
}

// Len returns the number of live handles.
func (t *HandleTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.blobs)
}
