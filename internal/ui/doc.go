// Package ui provides the terminal interface for subdeck.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model. It owns presentation only: which
// panels are open, what the search says and which notifications to show is
// decided by package controller, and every backend call goes through
// crud.Service.
//
// # Package Structure
//
//   - app.go: Model, message loop, key routing and the Run entry point
//   - header.go: status bar and command hints
//   - list.go: subscriber list, search bar and the empty placeholder
//   - detail.go: read-only subscriber panel
//   - document.go: create/edit form
//   - confirm.go: delete confirmation dialog
//   - toasts.go: notification stack
//   - logs.go: log overlay backed by logtail
//   - help.go: key reference modal
//   - theme.go, style_helpers.go: colors and background-safe rendering
//
// # Data Flow
//
// A ticker snapshots the shared store. Each snapshot is passed through
// controller.Mount (first time) or controller.Receive, and the returned
// commands are executed:
//
//   - FetchCommand and DeleteCommand run crud.Service calls as tea.Cmds
//   - NotifyCommand pushes onto the notification queue
//   - ClearStatusCommand resets the delete status
//
// Backend calls answer with storeChangedMsg, which requests a fresh snapshot
// so the result shows up without waiting for the next tick.
//
// # Key Bindings
//
// Input goes to the topmost layer: help, then the confirm dialog, then the
// document form, then the search box, then the list. Press ? for the full
// reference.
package ui
