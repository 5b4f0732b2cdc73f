// Package analysis defines the boundary between the task manager and the
// engine that produces stock analysis reports.
//
// The Analyzer interface is implemented by infrastructure adapters (see
// internal/platform/gemini). Its callers only know that an analysis either
// writes a complete report to the supplied writer or returns an error.
// Report and RenderHTML turn the engine's structured output into the HTML
// artifact that is served to clients.
package analysis
