package notifier

import (
	"fmt"
	"strings"

	"github.com/mauv0809/card-swap/internal/conversation"
)

// Action ids carried by interactive elements.
const (
	ActionPickSet       = "pick_set"
	ActionPickRarity    = "pick_rarity"
	ActionEnterCard     = "enter_card"
	ActionCompleteTrade = "complete_trade"
)

const cardBlockPrefix = "card:"

// ActionID suffixes an action with the element index, since Slack wants action ids
// to be unique within a block.
func ActionID(action string, i int) string {
	return fmt.Sprintf("%s.%d", action, i)
}

// ActionName strips the suffix added by ActionID.
func ActionName(actionID string) string {
	name, _, _ := strings.Cut(actionID, ".")
	return name
}

// TradeValue packs a search and offer id into a button value.
func TradeValue(searchID, offerID string) string {
	return searchID + ":" + offerID
}

// ParseTradeValue reverses TradeValue.
func ParseTradeValue(value string) (searchID, offerID string, err error) {
	searchID, offerID, ok := strings.Cut(value, ":")
	if !ok || searchID == "" || offerID == "" {
		return "", "", fmt.Errorf("malformed trade value %q", value)
	}
	return searchID, offerID, nil
}

// choiceValue packs a choice together with the flow it belongs to. The choice
// itself must not contain a colon.
func choiceValue(choice string, flow conversation.Flow) (string, error) {
	if choice == "" || strings.Contains(choice, ":") {
		return "", fmt.Errorf("invalid choice %q", choice)
	}
	encoded, err := flow.Encode()
	if err != nil {
		return "", err
	}
	return choice + ":" + encoded, nil
}

func parseChoiceValue(what, value string) (string, conversation.Flow, error) {
	choice, encoded, ok := strings.Cut(value, ":")
	if !ok || choice == "" {
		return "", conversation.Flow{}, fmt.Errorf("malformed %s value %q", what, value)
	}
	flow, err := conversation.Decode(encoded)
	if err != nil {
		return "", conversation.Flow{}, err
	}
	return choice, flow, nil
}

// RarityValue packs a rarity choice together with the flow it belongs to.
func RarityValue(rarity string, flow conversation.Flow) (string, error) {
	return choiceValue(rarity, flow)
}

// ParseRarityValue reverses RarityValue.
func ParseRarityValue(value string) (rarity string, flow conversation.Flow, err error) {
	return parseChoiceValue("rarity", value)
}

// SetValue packs a set code together with the flow it belongs to.
func SetValue(setCode string, flow conversation.Flow) (string, error) {
	return choiceValue(setCode, flow)
}

// ParseSetValue reverses SetValue.
func ParseSetValue(value string) (setCode string, flow conversation.Flow, err error) {
	return parseChoiceValue("set", value)
}

// CardBlockID names the card name input after the flow waiting for it. Slack
// sends the block id back with the typed name.
func CardBlockID(flow conversation.Flow) (string, error) {
	encoded, err := flow.Encode()
	if err != nil {
		return "", err
	}
	return cardBlockPrefix + encoded, nil
}

// ParseCardBlockID reverses CardBlockID.
func ParseCardBlockID(blockID string) (conversation.Flow, error) {
	encoded, ok := strings.CutPrefix(blockID, cardBlockPrefix)
	if !ok {
		return conversation.Flow{}, fmt.Errorf("malformed card block id %q", blockID)
	}
	return conversation.Decode(encoded)
}
