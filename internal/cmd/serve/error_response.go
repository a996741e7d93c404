package serve

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse wraps err for the client.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{err.Error()}
}
