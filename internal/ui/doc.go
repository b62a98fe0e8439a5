// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for device sync:
//  1. [PlaylistView] : Browse the virtual playlist and entry statuses
//  2. [ConfirmView] : Confirm the transfer operation
//  3. [SyncView] : Monitor real-time per-file upload progress
//  4. [ResultView] : Display transfer outcomes and failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the DeviceEngine, providing non-blocking status reporting during transfers.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
