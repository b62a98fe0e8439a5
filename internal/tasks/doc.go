// Package tasks orchestrates playlist-to-device transfers with real-time progress reporting.
//
// # Core Operations
//
// The [SyncEngine] interface defines two operations:
//
//  1. [SyncEngine.SyncAll] : Transfer every upload-eligible playlist entry
//     - Probes the device before moving any bytes
//     - Uploads entries strictly one at a time, in playlist order
//     - Reverts a failed entry to its linked state and continues with the rest
//     - Records each completed transfer in the bounded sync history
//
//  2. [SyncEngine.MatchFiles] : Link local audio files to playlist entries
//     - Scans a directory for audio files and reads their tags
//     - Matches files to missing entries by normalized title and artist
//     - Links each match, making the entry eligible for upload
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, per-file transfer
// percentages, and messages for display. Updates use select with default to
// prevent blocking.
//
// # Implementation
//
// [DeviceEngine] implements [SyncEngine] with dependencies on the playlist
// store and the device transport, both taken as interfaces.
package tasks
