package jobs

import (
	"context"
	"sync"
)

// Handle is one tracked background job. Cancellation is threaded through
// to the poll loop; nothing calls it today, but the plumbing is in place.
type Handle struct {
	TaskID string
	UserID int64
	cancel context.CancelFunc
}

func (h *Handle) Cancel() {
	h.cancel()
}

// Registry owns the handles of all in-flight polling tasks.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*Handle
}

func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*Handle),
	}
}

func (r *Registry) add(taskID string, userID int64, cancel context.CancelFunc) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := &Handle{TaskID: taskID, UserID: userID, cancel: cancel}
	r.jobs[taskID] = h
	return h
}

func (r *Registry) remove(taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.jobs, taskID)
}

func (r *Registry) Get(taskID string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.jobs[taskID]
	return h, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.jobs)
}
