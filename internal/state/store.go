package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/subdeck/internal/subscriber"
)

// Store coordinates concurrent updates to the subscriber collection cache and
// the action status tracker.
type Store struct {
	mu         sync.RWMutex
	collection subscriber.Snapshot
	statuses   map[subscriber.Operation]subscriber.ActionStatus
	seq        uint64

	// pendingStale records an invalidation that arrived while a fetch was in
	// flight. FinishFetch turns it into a new stale generation.
	pendingStale bool
}

// NewStore returns a store whose collection starts stale so the first
// reconciliation pass fetches it.
func NewStore() *Store {
	return &Store{
		collection: subscriber.Snapshot{
			NeedsFetch:   true,
			FetchRequest: subscriber.FetchAll,
			StaleGen:     1,
		},
		statuses: make(map[subscriber.Operation]subscriber.ActionStatus),
	}
}

// Snapshot returns a copy of the current collection state.
func (s *Store) Snapshot() subscriber.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.collection
	snap.Data = cloneData(s.collection.Data)
	if snap.FetchRequest == (subscriber.Request{}) {
		snap.FetchRequest = subscriber.FetchAll
	}
	if s.collection.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.collection.LastError)
	}
	return snap
}

// Seed populates the collection with previously cached records. The
// collection stays stale so the next pass still fetches from the backend.
func (s *Store) Seed(subs []subscriber.Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection.Data = indexSubscribers(subs)
	s.markStale()
}

// Invalidate marks the collection stale. While a fetch is in flight the
// invalidation is deferred until FinishFetch, since the running fetch may
// already be out of date.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidateLocked()
}

// BeginFetch marks a fetch in flight. It returns false when one is already
// running so concurrent fetches collapse into one.
func (s *Store) BeginFetch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collection.IsLoading {
		return false
	}
	s.collection.IsLoading = true
	s.collection.NeedsFetch = false
	return true
}

// FinishFetch records the outcome of a fetch. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store) FinishFetch(subs []subscriber.Subscriber, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection.IsLoading = false
	s.collection.LastUpdated = time.Now()
	if s.pendingStale {
		s.pendingStale = false
		s.markStale()
	}
	if err != nil {
		s.collection.LastError = err
		s.collection.ConsecutiveFailures++
		return
	}

	s.collection.Data = indexSubscribers(subs)
	s.collection.LastError = nil
	s.collection.ConsecutiveFailures = 0
}

// Status returns the latest status for op on subscribers.
func (s *Store) Status(op subscriber.Operation) subscriber.ActionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.statuses[op]
}

// BeginAction records that op is pending for id.
func (s *Store) BeginAction(op subscriber.Operation, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureStatuses()
	s.statuses[op] = subscriber.ActionStatus{Pending: true, ID: id}
}

// FinishAction records the terminal outcome of op. A successful mutation marks
// the collection stale.
func (s *Store) FinishAction(op subscriber.Operation, id string, result *subscriber.Result, errInfo *subscriber.ErrorInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureStatuses()
	s.seq++
	status := subscriber.ActionStatus{Seq: s.seq, ID: id}
	if errInfo != nil {
		status.Error = errInfo
	} else {
		if result == nil {
			result = &subscriber.Result{ID: id}
		}
		status.Response = result
		s.invalidateLocked()
	}
	s.statuses[op] = status
}

// ClearAction resets the status for op. Clearing an already clear status is a
// no-op.
func (s *Store) ClearAction(op subscriber.Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.statuses[op]; !ok {
		return
	}
	delete(s.statuses, op)
}

func (s *Store) invalidateLocked() {
	if s.collection.IsLoading {
		s.pendingStale = true
		return
	}
	s.markStale()
}

func (s *Store) markStale() {
	s.collection.NeedsFetch = true
	s.collection.StaleGen++
}

func (s *Store) ensureStatuses() {
	if s.statuses == nil {
		s.statuses = make(map[subscriber.Operation]subscriber.ActionStatus)
	}
}

func indexSubscribers(subs []subscriber.Subscriber) map[string]subscriber.Subscriber {
	data := make(map[string]subscriber.Subscriber, len(subs))
	for _, sub := range subs {
		if sub.IMSI == "" {
			continue
		}
		data[sub.IMSI] = sub
	}
	return data
}

func cloneData(data map[string]subscriber.Subscriber) map[string]subscriber.Subscriber {
	dup := make(map[string]subscriber.Subscriber, len(data))
	for k, v := range data {
		v.MSISDN = append([]string(nil), v.MSISDN...)
		dup[k] = v
	}
	return dup
}
