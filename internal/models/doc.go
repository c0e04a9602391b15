// Package models defines the catalog entities, the change commands that mutate them, and persisted run records.
//
// The package contains three categories of types:
//
// 1. Catalog entities, decoded from the bulk-load document:
//   - [User] : immutable account, identity = id
//   - [Song] : immutable track, identity = id
//   - [Playlist] : ordered, duplicate-free song ids owned by one user
//
// 2. Documents exchanged with the outside world:
//   - [Document] : the bulk-load input and the snapshot output share this shape
//   - [AddSongsChange], [NewPlaylistChange], [RemovePlaylistChange] : change commands tagged by [ChangeType]
//
// 3. Persistent entities:
//   - [Run] : one saved change batch with its snapshot
//
// Persistent entities implement the [Model] interface; [Repository] defines standard CRUD operations for database access.
package models
