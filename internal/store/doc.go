// Package store provides persistence for taskdock users and tasks.
//
// # Overview
//
// The package defines the data types (User, Task), the store interfaces
// (UserStore, TaskStore), and a SQLite implementation backed by
// modernc.org/sqlite. The schema is created automatically on first open.
//
// # Ownership scoping
//
// TaskStore has no unscoped task lookup: every operation that names a task
// also takes the owner's user ID, and the implementation applies both in a
// single SQL statement. The store's per-statement atomicity is the
// correctness mechanism that keeps one user's request from ever touching
// another user's task — there is no separate read-then-check-then-write
// sequence to race against.
//
// # Errors
//
// Lookup misses return ErrNotFound; for owner-scoped operations this covers
// both "no such task" and "not your task". Email collisions return
// ErrEmailExists. Callers translate these to transport responses.
package store
