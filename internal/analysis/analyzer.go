package analysis

import (
	"context"
	"io"
)

// Request identifies the company to analyse.
type Request struct {
	// Name is the company's display name, e.g. "Kweichow Moutai"
	Name string

	// Code is the exchange ticker, e.g. "600519"
	Code string
}

// Validate returns ErrEmptyInput if either field is blank.
func (r Request) Validate() error {
	if r.Name == "" || r.Code == "" {
		return ErrEmptyInput
	}
	return nil
}

// Analyzer defines the interface for stock analysis engines.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type Analyzer interface {
	// Analyze runs a blocking analysis for req and writes the rendered report to w.
	// Nothing should be considered written unless it returns nil.
	Analyze(ctx context.Context, req Request, w io.Writer) error
}

// AnalyzerFunc adapts an ordinary function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, req Request, w io.Writer) error

// Analyze calls f(ctx, req, w).
func (f AnalyzerFunc) Analyze(ctx context.Context, req Request, w io.Writer) error {
	return f(ctx, req, w)
}
