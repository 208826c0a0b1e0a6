package handler

// RateResponse represents one exchange rate in API responses
type RateResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"`
	Rate string `json:"rate"`
}

// HistoryResponse represents the response for the history endpoint
type HistoryResponse struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Start string         `json:"start"`
	End   string         `json:"end"`
	Rates []RateResponse `json:"rates"`
}

// PublishRateRequest represents the request body for seeding a rate
type PublishRateRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"`
	Rate string `json:"rate"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
