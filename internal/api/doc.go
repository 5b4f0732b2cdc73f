// Package api exposes the task manager over HTTP. Handlers read their
// arguments from the query string, validate them, call into the task
// manager and write JSON-encoded string results, matching the wire format
// existing polling clients expect.
package api
