// Package task manages the lifecycle of background stock analyses.
//
// A Manager accepts submissions, records each one in the in-memory Registry
// under a fresh id, and hands it to the Dispatcher, which runs the analysis on
// its own goroutine so the submitting request returns immediately. Callers
// poll with Manager.Query and reclaim the record and its report artifact with
// Manager.Delete. An optional Sweeper evicts finished tasks after a retention
// window, and Metrics exports lifecycle counters to Prometheus.
package task
