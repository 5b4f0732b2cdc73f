package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/stock-report-api/internal/analysis"
	"github.com/phrazzld/stock-report-api/internal/config"
	"google.golang.org/genai"
)

// Analyzer implements the analysis.Analyzer interface using
// Google's Gemini API to write stock analysis reports.
type Analyzer struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// models is the Gemini API surface used for requests
	models contentGenerator

	// baseDelay is the first retry delay before backoff and jitter
	baseDelay time.Duration
}

// NewAnalyzer creates a new Analyzer backed by a Gemini API client.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name, and retry settings
//
// Returns:
//   - A properly initialized Analyzer or an error if initialization fails
func NewAnalyzer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Analyzer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", analysis.ErrInvalidConfig, err)
	}

	return newAnalyzer(logger, cfg, client.Models), nil
}

func newAnalyzer(logger *slog.Logger, cfg config.LLMConfig, models contentGenerator) *Analyzer {
	return &Analyzer{
		logger:         logger,
		config:         cfg,
		promptTemplate: promptTemplate,
		models:         models,
		baseDelay:      time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}
}

// validateConfig checks the settings required to talk to the Gemini API.
func validateConfig(cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", analysis.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", analysis.ErrInvalidConfig)
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries cannot be negative", analysis.ErrInvalidConfig)
	}
	return nil
}

// Analyze asks Gemini for a report on req and writes it to w as HTML.
// Nothing is written to w unless the whole report was produced and validated.
func (a *Analyzer) Analyze(ctx context.Context, req analysis.Request, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	logger := a.logger.With("stock_name", req.Name, "stock_code", req.Code)

	prompt, err := a.createPrompt(req)
	if err != nil {
		return err
	}

	text, err := a.callGeminiWithRetry(ctx, logger, prompt)
	if err != nil {
		return fmt.Errorf("%w: %w", analysis.ErrAnalysisFailed, err)
	}

	report, err := parseReport(text)
	if err != nil {
		logger.ErrorContext(ctx, "failed to parse Gemini response", "error", err, "response_length", len(text))
		return fmt.Errorf("%w: %w", analysis.ErrAnalysisFailed, err)
	}
	report.Name = req.Name
	report.Code = req.Code
	report.GeneratedAt = time.Now().UTC()

	logger.InfoContext(ctx, "analysis report generated",
		"sections", len(report.Sections),
		"rating", report.Rating)

	return analysis.RenderHTML(w, report)
}

// createPrompt generates a prompt string from the template for req.
func (a *Analyzer) createPrompt(req analysis.Request) (string, error) {
	var promptBuffer bytes.Buffer
	if err := a.promptTemplate.Execute(&promptBuffer, promptData{Name: req.Name, Code: req.Code}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return promptBuffer.String(), nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential backoff retry logic.
//
// It attempts the call up to config.MaxRetries+1 times. Errors returned by the
// API client are treated as transient; an empty or safety-blocked response is
// permanent and returned immediately.
func (a *Analyzer) callGeminiWithRetry(ctx context.Context, logger *slog.Logger, prompt string) (string, error) {
	maxRetries := a.config.MaxRetries
	genConfig := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(a.config.Temperature),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		logger.InfoContext(ctx, "Making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		resp, err := a.models.GenerateContent(ctx, a.config.ModelName, genai.Text(prompt), genConfig)
		if err == nil {
			text, respErr := responseText(resp)
			if respErr != nil {
				logger.WarnContext(ctx, "Permanent error occurred, not retrying", "error", respErr)
				return "", respErr
			}
			logger.InfoContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return text, nil
		}

		logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if attempt >= maxRetries {
			logger.WarnContext(ctx, "Maximum retry attempts reached", "max_retries", maxRetries)
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				analysis.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoff := float64(a.baseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rand.Float64()*0.5))

		logger.InfoContext(ctx, "Retrying after delay",
			"attempt", attemptNum,
			"delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return "", fmt.Errorf("%w: %w", analysis.ErrTransientFailure, ctx.Err())
		}
	}
}

// responseText extracts the text of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", analysis.ErrInvalidResponse)
	case len(resp.Candidates) == 0 || resp.Candidates[0] == nil:
		return "", fmt.Errorf("%w: no content generated", analysis.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", analysis.ErrContentBlocked
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content in response", analysis.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: response has no text parts", analysis.ErrInvalidResponse)
	}
	return sb.String(), nil
}

// parseReport decodes the model's JSON answer. Markdown code fences around
// the JSON are tolerated.
func parseReport(text string) (*analysis.Report, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var report analysis.Report
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &report); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", analysis.ErrInvalidResponse, err)
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	return &report, nil
}

var _ analysis.Analyzer = (*Analyzer)(nil)
