// Package domain contains the core entities of the report service: the
// tracked analysis task, its status state machine, and the errors shared
// between the task manager and the HTTP layer. It has no knowledge of
// storage, transport or the analysis engine.
package domain
