package booking

import (
	"sync"
	"time"
)

// Ids are millisecond timestamps, so they sort by creation order. A
// process-local guard bumps the value when two bookings are created within
// the same millisecond; uniqueness across processes is left to the storage
// backend's primary key, matching the original single-writer deployment.
var (
	idMu   sync.Mutex
	lastID int64
)

func nextID() int64 {
	idMu.Lock()
	defer idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
