package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/conversation"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/trade"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// respondWithSlackMsg writes whatever the notifier produced as the JSON response body.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// respondWithSlackError answers a Slack request with a readable error. Slack only
// shows response bodies for 200s, so the status is always OK.
func respondWithSlackError(w http.ResponseWriter, n notifier.Notifier, err error) {
	msg, ferr := n.FormatErrorResponse(userMessage(err))
	if ferr != nil {
		http.Error(w, "Failed to format error", http.StatusInternalServerError)
		log.Error("Failed to format error response", "error", ferr)
		return
	}
	respondWithSlackMsg(w, msg)
}

// userMessage turns a workflow error into text fit for a chat user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, conversation.ErrInvalidFlow), errors.Is(err, conversation.ErrInvalidTransition):
		return "That prompt has expired. Please run the command again."
	case errors.Is(err, trade.ErrInvalidRarity):
		return "Unknown rarity. Use one of: One Diamond, Two Diamond, Three Diamond, Four Diamond, One Star."
	case errors.Is(err, trade.ErrInvalidInput):
		return "Please provide a card name."
	case errors.Is(err, trade.ErrStorageUnavailable):
		return "The trade database is unavailable right now. Please try again in a moment."
	default:
		return "Something went wrong. Please try again."
	}
}

// statusFor maps a workflow error to an HTTP status for the JSON API.
func statusFor(err error) int {
	switch {
	case trade.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, trade.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, trade.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the body of every failed JSON API request. ListingID is set when the
// listing was stored before the request failed, so the client must not resubmit it.
type APIError struct {
	Error     string `json:"error"`
	ListingID string `json:"listing_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func respondAPIError(w http.ResponseWriter, err error) {
	respondStoredListingError(w, err, "")
}

func respondStoredListingError(w http.ResponseWriter, err error, listingID string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("API request failed", "error", err, "status", status, "listing_id", listingID)
	}
	respondJSON(w, status, APIError{Error: err.Error(), ListingID: listingID})
}

// slackUser builds the acting user from the fields Slack sends with every slash command.
func slackUser(r *http.Request) trade.User {
	return trade.User{
		ID:     strings.TrimSpace(r.FormValue("user_id")),
		Handle: strings.TrimSpace(r.FormValue("user_name")),
	}
}
