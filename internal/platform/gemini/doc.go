// Package gemini provides an implementation of the analysis.Analyzer interface
// that uses Google's Gemini API to write stock analysis reports.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the task manager to Google's external Gemini AI service without
// exposing the details of the external service to the core application.
//
// Key components:
//
// 1. Analyzer:
//   - Implements the analysis.Analyzer interface
//   - Handles communication with the Gemini API
//   - Parses the structured JSON response into an analysis.Report
//
// 2. Prompt Management:
//   - Builds the prompt from a text/template with the company name and code
//
// 3. Error Handling:
//   - Retries transient API errors with exponential backoff and jitter
//   - Treats safety blocks and malformed responses as permanent errors
//
// A single Analyze call may make several API requests, but a failed analysis
// is never re-run; that decision belongs to the caller.
package gemini
