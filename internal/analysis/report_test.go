package analysis

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() *Report {
	return &Report{
		Name:    "Acme",
		Code:    "ACM",
		Summary: "Stable margins.",
		Rating:  "hold",
		Sections: []Section{
			{Heading: "Trend", Body: "Sideways for six months."},
		},
		Risks: []string{"Input costs"},
	}
}

func TestReport_Validate(t *testing.T) {
	assert.NoError(t, validReport().Validate())

	r := validReport()
	r.Summary = ""
	assert.ErrorIs(t, r.Validate(), ErrInvalidResponse)

	r = validReport()
	r.Sections = nil
	assert.ErrorIs(t, r.Validate(), ErrInvalidResponse)

	r = validReport()
	r.Sections[0].Body = ""
	assert.ErrorIs(t, r.Validate(), ErrInvalidResponse)
}

func TestRenderHTML(t *testing.T) {
	r := validReport()
	r.GeneratedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, r))

	html := buf.String()
	assert.Contains(t, html, "<title>Acme (ACM) analysis</title>")
	assert.Contains(t, html, "<h2>Trend</h2>")
	assert.Contains(t, html, "<li>Input costs</li>")
	assert.Contains(t, html, "2024-03-01 09:30:00 UTC")
}

func TestRenderHTML_EscapesModelOutput(t *testing.T) {
	r := validReport()
	r.Summary = `<script>alert("x")</script>`

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, r))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestRequest_Validate(t *testing.T) {
	assert.NoError(t, Request{Name: "Acme", Code: "ACM"}.Validate())
	assert.ErrorIs(t, Request{Code: "ACM"}.Validate(), ErrEmptyInput)
	assert.ErrorIs(t, Request{Name: "Acme"}.Validate(), ErrEmptyInput)
}

func TestAnalyzerFunc(t *testing.T) {
	var got Request
	a := AnalyzerFunc(func(ctx context.Context, req Request, w io.Writer) error {
		got = req
		_, err := io.WriteString(w, "report")
		return err
	})

	var buf bytes.Buffer
	require.NoError(t, a.Analyze(context.Background(), Request{Name: "Acme", Code: "ACM"}, &buf))
	assert.Equal(t, "report", buf.String())
	assert.Equal(t, "ACM", got.Code)
}
