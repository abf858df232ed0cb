package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is returned for responses with status >= 400. Name and Message are
// decoded from a JSON body of the form {"name": ..., "message": ...} when the
// backend sends one.
type APIError struct {
	Path       string
	StatusCode int
	Name       string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.Name != "" && e.Message != "":
		return fmt.Sprintf("api %s returned status %d: %s: %s", e.Path, e.StatusCode, e.Name, e.Message)
	case e.Message != "":
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
	}
}

// HasBody reports whether the backend supplied a structured error body.
func (e *APIError) HasBody() bool {
	return e.Name != "" || e.Message != ""
}

func newAPIError(path string, resp *http.Response) *APIError {
	apiErr := &APIError{Path: path, StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var body struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	apiErr.Name = strings.TrimSpace(body.Name)
	apiErr.Message = strings.TrimSpace(body.Message)
	return apiErr
}
