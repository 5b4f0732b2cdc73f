package analysis

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

// Report is the structured result of one analysis.
type Report struct {
	Name        string    `json:"-"`
	Code        string    `json:"-"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Rating      string    `json:"rating"`
	Sections    []Section `json:"sections"`
	Risks       []string  `json:"risks,omitempty"`
	GeneratedAt time.Time `json:"-"`
}

// Section is one titled block of the report body.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Validate checks that the report has the fields the HTML template needs.
func (r *Report) Validate() error {
	if r.Summary == "" {
		return fmt.Errorf("%w: report summary is empty", ErrInvalidResponse)
	}
	if len(r.Sections) == 0 {
		return fmt.Errorf("%w: report has no sections", ErrInvalidResponse)
	}
	for i, s := range r.Sections {
		if s.Heading == "" || s.Body == "" {
			return fmt.Errorf("%w: section %d is missing heading or body", ErrInvalidResponse, i)
		}
	}
	return nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 860px; margin: 2em auto; line-height: 1.5; }
.rating { display: inline-block; padding: 0.2em 0.6em; border: 1px solid #333; }
footer { color: #777; font-size: 0.85em; margin-top: 3em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p><strong>{{.Name}}</strong> ({{.Code}}){{if .Rating}} <span class="rating">{{.Rating}}</span>{{end}}</p>
<p>{{.Summary}}</p>
{{range .Sections}}<h2>{{.Heading}}</h2>
<p>{{.Body}}</p>
{{end}}{{if .Risks}}<h2>Risks</h2>
<ul>
{{range .Risks}}<li>{{.}}</li>
{{end}}</ul>
{{end}}<footer>Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}. Not investment advice.</footer>
</body>
</html>
`))

// RenderHTML writes r as a standalone HTML document.
// All report text is escaped by html/template.
func RenderHTML(w io.Writer, r *Report) error {
	if r.Title == "" {
		r.Title = fmt.Sprintf("%s (%s) analysis", r.Name, r.Code)
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}
	if err := reportTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
