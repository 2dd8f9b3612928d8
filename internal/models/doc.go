// Package models defines the persistent data model for the simrai service.
//
// The only persisted entity is the playlist history record: playlists the
// service created in users' Spotify accounts. OAuth credentials deliberately
// live outside the database, in per-user token partitions owned by the auth
// package.
package models
