package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/processor"
	"github.com/mauv0809/card-swap/internal/trade"
	"github.com/slack-go/slack"
)

// InteractionsHandler handles block actions. The set and rarity pickers and the card
// name input advance a listing flow until it can be submitted, and the
// complete-trade button closes a trade.
func InteractionsHandler(svc *trade.Service, n notifier.Notifier, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		var callback slack.InteractionCallback
		if err := json.Unmarshal([]byte(r.FormValue("payload")), &callback); err != nil {
			log.Error("Failed to unmarshal interaction payload", "error", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if callback.Type != slack.InteractionTypeBlockActions || len(callback.ActionCallback.BlockActions) == 0 {
			log.Debug("Ignoring interaction", "type", callback.Type)
			w.WriteHeader(http.StatusOK)
			return
		}

		action := callback.ActionCallback.BlockActions[0]
		user := trade.User{ID: callback.User.ID, Handle: callback.User.Name}
		log.Info("Received interaction", "action", action.ActionID, "user", user.ID)

		var (
			msg any
			err error
		)
		switch notifier.ActionName(action.ActionID) {
		case notifier.ActionPickSet:
			msg, err = pickSet(action.Value, n)
		case notifier.ActionPickRarity:
			msg, err = pickRarity(r.Context(), action.Value, user, svc, n, proc, IsDryRunFromContext(r))
		case notifier.ActionEnterCard:
			msg, err = enterCard(r.Context(), action.BlockID, action.Value, user, svc, n, proc, IsDryRunFromContext(r))
		case notifier.ActionCompleteTrade:
			msg, err = completeFromButton(r.Context(), action.Value, svc, n)
		default:
			log.Warn("Unknown interaction action", "action", action.ActionID)
			w.WriteHeader(http.StatusOK)
			return
		}
		if err != nil {
			log.Warn("Interaction failed", "action", action.ActionID, "user", user.ID, "error", err)
			msg, err = n.FormatErrorResponse(userMessage(err))
			if err != nil {
				http.Error(w, "Failed to format error", http.StatusInternalServerError)
				return
			}
		}

		replyToInteraction(r.Context(), callback.ResponseURL, msg)
		respondWithSlackMsg(w, msg)
	}
}

func pickSet(value string, n notifier.Notifier) (any, error) {
	code, flow, err := notifier.ParseSetValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", trade.ErrInvalidInput, err)
	}
	flow, err = flow.ChooseSet(code)
	if err != nil {
		return nil, err
	}
	return n.FormatRarityPickerResponse(flow)
}

// pickRarity submits the listing when the card name was typed with the command,
// otherwise it asks for the name.
func pickRarity(ctx context.Context, value string, user trade.User, svc *trade.Service, n notifier.Notifier, proc *processor.Processor, dryRun bool) (any, error) {
	rarity, flow, err := notifier.ParseRarityValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", trade.ErrInvalidInput, err)
	}
	flow, err = flow.ChooseRarity(rarity)
	if err != nil {
		return nil, err
	}
	if !flow.Ready() {
		return n.FormatCardNamePromptResponse(flow)
	}
	return submitListing(ctx, flow.Intent, user, flow.CardName, flow.Rarity.String(), svc, n, proc, dryRun)
}

func enterCard(ctx context.Context, blockID, name string, user trade.User, svc *trade.Service, n notifier.Notifier, proc *processor.Processor, dryRun bool) (any, error) {
	flow, err := notifier.ParseCardBlockID(blockID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", trade.ErrInvalidInput, err)
	}
	flow, err = flow.EnterCard(name)
	if err != nil {
		return nil, err
	}
	return submitListing(ctx, flow.Intent, user, flow.CardName, flow.Rarity.String(), svc, n, proc, dryRun)
}

func completeFromButton(ctx context.Context, value string, svc *trade.Service, n notifier.Notifier) (any, error) {
	searchID, offerID, err := notifier.ParseTradeValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", trade.ErrInvalidInput, err)
	}
	res, err := svc.CompleteTrade(ctx, searchID, offerID)
	if err != nil {
		return nil, err
	}
	return n.FormatCompletionResponse(res)
}

// replyToInteraction replaces the message holding the clicked button. Slack ignores
// response bodies for block actions, so the reply goes through the response URL.
func replyToInteraction(ctx context.Context, responseURL string, msg any) {
	if responseURL == "" {
		return
	}
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		log.Warn("Interaction reply is not a Slack message, skipping response URL")
		return
	}
	err := slack.PostWebhookContext(ctx, responseURL, &slack.WebhookMessage{
		Text:            slackMsg.Text,
		Blocks:          &slackMsg.Blocks,
		ReplaceOriginal: true,
	})
	if err != nil {
		log.Error("Failed to post interaction reply", "error", err)
	}
}
