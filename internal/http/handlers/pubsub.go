package handlers

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/processor"
	"github.com/mauv0809/card-swap/internal/pubsub"
)

// NotifyMatchHandler is the push endpoint for queued match notifications. Any non-2xx
// answer makes Pub/Sub redeliver the message.
func NotifyMatchHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match notification message", "body", string(bodyBytes))

		envelope, rawData, err := pubsub.ParsePush(bodyBytes)
		if err != nil {
			log.Error("Failed to parse push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}

		var notice notifier.MatchNotification
		if err := pubsub.Decode(rawData, &notice); err != nil {
			http.Error(w, "Invalid notification payload", http.StatusBadRequest)
			return
		}

		if err := proc.Deliver(r.Context(), notice, IsDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to deliver notification", http.StatusInternalServerError)
			return
		}
		log.Info("Delivered queued match notification", "message_id", envelope.Message.ID, "recipient", notice.RecipientID)
		w.Write([]byte("OK"))
	}
}
