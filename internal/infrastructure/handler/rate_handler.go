// Package handler internal/infrastructure/handler/rate_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/damon-houk/fx-rate-client/internal/application/service"
	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
	"github.com/damon-houk/fx-rate-client/internal/domain/repository"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/logger"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// RateHandler serves the exchange-rate API endpoints
type RateHandler struct {
	service *service.RateLookupService
	logger  logger.Logger
}

// NewRateHandler creates a new rate handler
func NewRateHandler(service *service.RateLookupService, log logger.Logger) *RateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateHandler{
		service: service,
		logger:  log,
	}
}

// QueryRate handles the current rate lookup
func (h *RateHandler) QueryRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	rate, err := h.service.Latest(r.Context(), query.Get("from"), query.Get("to"), query.Get("date"))
	if err != nil {
		h.handleLookupError(w, err, requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toRateResponse(rate))
}

// QueryHistory handles the rate history lookup
func (h *RateHandler) QueryHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	q := service.HistoryQuery{
		From:  query.Get("from"),
		To:    query.Get("to"),
		Start: query.Get("start"),
		End:   query.Get("end"),
	}

	rates, err := h.service.History(r.Context(), q)
	if err == nil && len(rates) == 0 {
		err = repository.ErrRateNotFound
	}
	if err != nil {
		h.handleLookupError(w, err, requestID)
		return
	}

	resp := HistoryResponse{
		From:  rates[0].From,
		To:    rates[0].To,
		Start: q.Start,
		End:   q.End,
		Rates: make([]RateResponse, 0, len(rates)),
	}
	for _, rate := range rates {
		resp.Rates = append(resp.Rates, toRateResponse(rate))
	}
	if resp.Start == "" {
		resp.Start = resp.Rates[0].Date
	}
	if resp.End == "" {
		resp.End = resp.Rates[len(resp.Rates)-1].Date
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// PublishRate handles seeding a rate record
func (h *RateHandler) PublishRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req PublishRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid date format",
			"Date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
		return
	}

	value, err := decimal.NewFromString(req.Rate)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid rate",
			"Rate must be a decimal number", http.StatusBadRequest, requestID)
		return
	}

	rate := &entity.RateRecord{From: req.From, To: req.To, Date: date, Rate: value}
	if err := h.service.Publish(r.Context(), rate); err != nil {
		h.handleLookupError(w, err, requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, toRateResponse(rate))
}

func (h *RateHandler) handleLookupError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, service.ErrInvalidLookup):
		h.logger.Warn("Invalid rate lookup", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid parameters", err.Error(), http.StatusBadRequest, requestID)
	case errors.Is(err, repository.ErrRateNotFound):
		sendErrorResponse(w, h.logger, "Exchange rate not found",
			"No exchange rate is available for the requested currencies and dates",
			http.StatusNotFound, requestID)
	default:
		h.logger.Error("Unexpected error in rate handler", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred. Please try again later.",
			http.StatusInternalServerError, requestID)
	}
}

// RegisterRoutes registers the rate handler routes
func (h *RateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/query", h.QueryRate).Methods("GET")
	router.HandleFunc("/history", h.QueryHistory).Methods("GET")
	router.HandleFunc("/rates", h.PublishRate).Methods("POST")

	h.logger.Info("Rate routes registered", map[string]interface{}{
		"routes": []string{
			"GET /query",
			"GET /history",
			"POST /rates",
		},
	})
}

func toRateResponse(rate *entity.RateRecord) RateResponse {
	return RateResponse{
		From: rate.From,
		To:   rate.To,
		Date: rate.Date.Format(dateLayout),
		Rate: rate.Rate.String(),
	}
}

func writeJSON(w http.ResponseWriter, log logger.Logger, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	writeJSON(w, log, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}
