// Package api provides the wiki REST API client.
package api

import (
	"errors"
	"net/http"
	"time"
)

// PaginatedResponse wraps paginated API responses.
type PaginatedResponse[T any] struct {
	Results []T   `json:"results"`
	Links   Links `json:"_links,omitempty"`
}

// Links contains pagination and navigation links.
type Links struct {
	Next  string `json:"next,omitempty"`
	Base  string `json:"base,omitempty"`
	WebUI string `json:"webui,omitempty"`
}

// HasMore returns true if there are more results available.
func (p *PaginatedResponse[T]) HasMore() bool {
	return p.Links.Next != ""
}

// Page represents a wiki page.
type Page struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	PageName string `json:"pagename"`
	Scope    string `json:"scope,omitempty"`
	State    int    `json:"state,omitempty"`
	Created  Time   `json:"created,omitempty"`
	Links    Links  `json:"_links,omitempty"`
}

// Attachment represents a file attached to a wiki page.
type Attachment struct {
	ID          int64  `json:"id"`
	PageID      int64  `json:"page_id"`
	Filename    string `json:"filename"`
	Description string `json:"description,omitempty"`
	FileSize    int64  `json:"filesize,omitempty"`
	CreatedBy   int64  `json:"created_by,omitempty"`
	Created     Time   `json:"created,omitempty"`
}

// Member represents a site member.
type Member struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Time is a wrapper around time.Time for custom JSON parsing.
type Time struct {
	time.Time
}

// UnmarshalJSON parses ISO 8601 and MySQL style datetimes.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)

	// Handle null or empty
	if s == "null" || s == `""` || s == "" {
		return nil
	}

	// Remove quotes if present
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "0000-00-00 00:00:00" {
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Try alternative format
		parsed, err = time.Parse(time.DateTime, s)
		if err != nil {
			return err
		}
	}

	t.Time = parsed
	return nil
}

// MarshalJSON formats time in ISO 8601 format.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

func (e *ErrorResponse) Error() string {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return e.Message
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var errResp *ErrorResponse
	return errors.As(err, &errResp) && errResp.StatusCode == http.StatusNotFound
}
