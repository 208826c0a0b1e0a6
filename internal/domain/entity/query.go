package entity

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// QueryParam carries caller supplied query data (currency codes, date ranges).
// Its keys and values are defined by the remote API, not by this module.
type QueryParam map[string]any

// Response is the payload returned by a transport for a successful request.
// The body is kept as raw bytes; nothing here interprets it.
type Response struct {
	StatusCode int             `json:"status_code"`
	Header     http.Header     `json:"-"`
	Body       json.RawMessage `json:"body"`
}

// Decode unmarshals the response body into v
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
