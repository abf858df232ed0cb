// Package state provides thread-safe state management for subdeck.
//
// # Overview
//
// The Store holds two slices of shared state that the view controller reads
// once per reconciliation pass:
//
//   - the remote collection cache: subscribers keyed by IMSI, plus the
//     IsLoading and NeedsFetch flags and the last fetch error
//   - the action status tracker: the outcome of the most recent create, update
//     or delete, keyed by operation
//
// # Architecture
//
//	Producers (crud adapter, poller):      Consumer (UI):
//	┌──────────────────────┐              ┌─────────────────────┐
//	│ BeginFetch()         │              │                     │
//	│ FinishFetch()        │              │ store.Snapshot()    │
//	│ BeginAction()        │─────────────→│ store.Status(op)    │
//	│ FinishAction()       │   (mutex)    │      ↓              │
//	│ Invalidate()         │              │ controller.Receive  │
//	└──────────────────────┘              └─────────────────────┘
//
// # Staleness
//
// NeedsFetch is the de-duplication signal for fetches. BeginFetch clears it
// and refuses to start a second fetch while one is in flight; Invalidate and
// successful mutations set it again and advance StaleGen. An invalidation
// that lands while a fetch is in flight is held back and applied by
// FinishFetch, because the running fetch may predate the change. The
// controller emits one fetch per stale generation it observes, so a cycle
// that completes between two snapshots is not lost.
//
// # Status Sequencing
//
// Every terminal FinishAction bumps a store-wide sequence number carried in
// ActionStatus.Seq. Consumers remember the last sequence they handled so a
// status delivered twice before ClearAction lands is only acted on once.
// ClearAction is idempotent.
//
// # Update Semantics
//
// Fetch failures keep the previous data, record LastError and increment
// ConsecutiveFailures; a success resets both. Snapshots are deep copies.
package state
