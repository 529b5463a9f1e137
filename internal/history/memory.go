package history

import (
	"context"
	"sync"
)

type memoryTracker struct {
	mutex   sync.Mutex
	entries map[string]Entry
}

func NewMemoryTracker() Tracker {
	return &memoryTracker{entries: make(map[string]Entry)}
}

func (t *memoryTracker) Visit(_ context.Context, session, pathname string) (string, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	entry := t.entries[session].visit(pathname)
	t.entries[session] = entry
	return entry.Previous, nil
}

func (t *memoryTracker) Previous(_ context.Context, session string) (string, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.entries[session].Previous, nil
}
