package studysync

import "sync"

// Inflight tracks the workspaces that currently have a generation request
// outstanding, together with the stored file each one is reading. At most one
// request per workspace is admitted.
type Inflight struct {
	mu     sync.Mutex
	active map[string]string
}

func NewInflight() *Inflight {
	return &Inflight{active: map[string]string{}}
}

// TryAcquire marks the workspace busy reading fileKey. It returns false if the
// workspace already was busy.
func (f *Inflight) TryAcquire(id, fileKey string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.active[id]; busy {
		return false
	}
	f.active[id] = fileKey
	return true
}

func (f *Inflight) Release(id string) {
	f.mu.Lock()
	delete(f.active, id)
	f.mu.Unlock()
}

func (f *Inflight) Active(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.active[id]
	return busy
}

// Reading reports whether the workspace's in-flight generation was started
// from the stored file fileKey.
func (f *Inflight) Reading(id, fileKey string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, busy := f.active[id]
	return busy && key == fileKey
}
