// Package models defines the data model shared by the catalog client, the
// playlist store, the device transport and the sync engine.
//
// The central record is [PlaylistEntry]: a catalog track the user wants on the
// player, optionally linked to a local audio file for the current session.
// Entries move through the [EntryStatus] lifecycle
//
//	missing → linked → uploading → uploaded
//
// where a failed transfer reverts uploading back to linked. The local file
// linkage is session-scoped and never serialized; after a restart a persisted
// "linked" entry carries no file reference and is skipped by the sync engine
// until the user links a file again.
package models
