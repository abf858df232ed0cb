// Package controller implements the subscriber view controller as pure
// reducer-style functions.
//
// The controller owns the search filter and three independent panel modes
// (document, detail view, delete confirmation). It never reads or mutates
// shared state directly: each reconciliation pass receives the latest
// collection snapshot and action status as Props and returns the new State
// plus a list of Commands (fetch, delete, notify, clear status) for the
// caller to execute.
//
// Mount runs once, Receive on every later props delivery. A fetch is emitted
// on mount when the snapshot is stale and afterwards once per new
// Snapshot.StaleGen; State.FetchedGen remembers the generation last fetched.
// Snapshots without a generation fall back to the NeedsFetch false to true
// flip. A terminal action status becomes exactly one
// notification followed by a clear; State.ConsumedStatus remembers the last
// handled ActionStatus.Seq so a status redelivered before the clear lands is
// ignored.
//
// Derive turns (State, Props) into the render flags. It is deterministic.
package controller
