// Package repositories provides the persistence layer for playlist history.
//
// [PlaylistRepository] implements [models.Repository] for
// [models.Playlist], handling CRUD operations, soft deletes, and sequence
// generation over SQLite.
package repositories
