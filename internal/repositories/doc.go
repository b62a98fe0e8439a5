// Package repositories provides the persistence layer on SQLite.
//
// Prefs implements the durable string-keyed preference store that every other
// component uses to survive restarts (device address, sync history, playlist
// entries, catalog credentials and tokens). TrackCacheRepository persists
// catalog search results for offline listing.
package repositories
