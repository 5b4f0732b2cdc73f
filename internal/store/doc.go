// Package store persists the report artifacts produced by completed tasks.
// The ArtifactStore interface abstracts the filesystem so the task manager
// can be exercised against an in-memory filesystem in tests and the real
// output directory in production.
package store
