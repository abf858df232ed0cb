// Package app provides the orchestration layer for subdeck.
//
// # Overview
//
// This package wires together configuration, logging, the backend client, the
// shared store and the UI. It is the composition root where all dependencies
// are initialized and connected.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read subdeck config
//	       ├─────> logging.Setup()      Open the JSON log file
//	       ├─────> api.NewClient()      Create HTTP client
//	       ├─────> state.NewStore()     Shared cache + status tracker
//	       ├─────> diskcache.Load()     Warm start from the last collection
//	       ├─────> crud.New()           Command executor
//	       ├─────> StartPoller()        Periodic staleness marking
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> wait interval (or backoff)         │
//	│  └─> svc.Refresh()  marks stale         │
//	│      └─> controller emits a fetch       │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller never fetches by itself. It only flips the collection to stale,
// which the view controller turns into exactly one fetch. While fetches keep
// failing, the wait doubles per consecutive failure up to 30 seconds.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Log file cannot be opened
//   - API client initialization failure
//
// Recoverable errors (logged):
//   - Cache read or write failures
//   - Fetch and mutation failures, which also surface as notifications
package app
