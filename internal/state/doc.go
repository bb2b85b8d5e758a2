// Package state owns the cart, the wishlist and the signed-in account and keeps
// them in a durable key-value store across restarts.
//
// A Store is built once at start and handed to every consumer. Mutations are
// applied in memory first and observers see the new value at once; the value is
// then written with bounded retries. When the write still fails the in-memory
// value rolls back to the last durable snapshot, observers get a StorageFailed
// event and the caller gets a *StorageError.
package state
