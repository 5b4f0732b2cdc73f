package api

// Version is reported by GET /version.
const Version = "1.0.0"

// Response bodies. Every endpoint answers with a JSON-encoded string.
const (
	DeleteSuccess = "success"
)

// StartRequest holds the query parameters of GET /start.
type StartRequest struct {
	Name string `query:"name" validate:"required"`
	Code string `query:"code" validate:"required"`
}
