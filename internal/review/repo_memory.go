package review

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"resume-review/internal/intake"
)

// MemoryRepo is an in-memory implementation of Repo. Sessions do not survive
// a restart.
type MemoryRepo struct {
	mu    sync.RWMutex
	data  map[string]*Session
	rules intake.Rules
	now   func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo whose sessions use rules for intake.
func NewMemoryRepo(rules intake.Rules, now func() time.Time) *MemoryRepo {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepo{
		data:  make(map[string]*Session),
		rules: rules,
		now:   now,
	}
}

// GetOrCreate returns the session for id, creating an empty one if needed.
func (r *MemoryRepo) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.New("session id required")
	}
	now := r.now()

	r.mu.RLock()
	sess, ok := r.data[id]
	r.mu.RUnlock()
	if !ok {
		r.mu.Lock()
		if sess, ok = r.data[id]; !ok {
			sess = newSession(id, r.rules, now)
			r.data[id] = sess
		}
		r.mu.Unlock()
	}

	sess.mu.Lock()
	sess.touch(now)
	sess.mu.Unlock()
	return sess, nil
}

// Get returns an existing session.
func (r *MemoryRepo) Get(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete drops a session; unknown ids are ignored.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

// Sweep evicts sessions idle for longer than ttl and returns their ids, sorted.
// Sessions with an extraction in flight are kept.
func (r *MemoryRepo) Sweep(now time.Time, ttl time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var evicted []string
	for id, sess := range r.data {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen) > ttl && !sess.processing && !sess.textBusy
		sess.mu.Unlock()
		if idle {
			delete(r.data, id)
			evicted = append(evicted, id)
		}
	}
	sort.Strings(evicted)
	return evicted
}

// Len returns the number of live sessions.
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

var _ Repo = (*MemoryRepo)(nil)
