package slack

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/conversation"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/trade"
	"github.com/slack-go/slack"
)

// Slack rejects messages with more than 50 blocks and action blocks with more
// than 25 elements.
const (
	maxListed         = 40
	maxActionElements = 25
)

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("mrkdwn", text, false, false)
}

func header(text string) slack.Block {
	return slack.NewHeaderBlock(plain(text))
}

func section(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(markdown(text), nil, nil)
}

func contextLine(text string) slack.Block {
	return slack.NewContextBlock("", markdown(text))
}

func cardLabel(name string, r card.Rarity) string {
	return fmt.Sprintf("*%s* %s", name, r.Symbol())
}

func truncated(blocks []slack.Block, total int) []slack.Block {
	if total > maxListed {
		blocks = append(blocks, contextLine(fmt.Sprintf("…and %d more", total-maxListed)))
	}
	return blocks
}

func completeButton(searchID, offerID string) *slack.ButtonBlockElement {
	btn := slack.NewButtonBlockElement(notifier.ActionCompleteTrade, notifier.TradeValue(searchID, offerID), plain("Trade done"))
	btn.Style = slack.StylePrimary
	return btn
}

// formatMatchNotification creates the direct message for the owner of a matched search.
func (s *Notifier) formatMatchNotification(n notifier.MatchNotification) slack.Message {
	text := fmt.Sprintf("%s is offering %s, a card you are looking for.", n.CounterpartyHandle, cardLabel(n.CardName, n.Rarity))
	blocks := []slack.Block{
		header("🔔 Match found!"),
		slack.NewSectionBlock(markdown(text), nil, slack.NewAccessory(completeButton(n.SearchID, n.OfferID))),
		contextLine("Contact them to arrange the trade, then press *Trade done* to remove both listings."),
	}
	msg := slack.NewBlockMessage(blocks...)
	msg.Text = fmt.Sprintf("Match found: %s is offering %s", n.CounterpartyHandle, n.CardName)
	return msg
}

// FormatOfferResponse confirms a recorded offer.
func (s *Notifier) FormatOfferResponse(res *trade.OfferResult) (any, error) {
	blocks := []slack.Block{
		section(fmt.Sprintf("✅ Offer recorded: %s", cardLabel(res.CardName, res.Rarity))),
	}
	switch n := len(res.MatchedSearches); n {
	case 0:
		blocks = append(blocks, contextLine("Nobody is looking for this card yet. You will be listed under `/cards`."))
	case 1:
		blocks = append(blocks, contextLine("1 trader is looking for this card and has been notified."))
	default:
		blocks = append(blocks, contextLine(fmt.Sprintf("%d traders are looking for this card and have been notified.", n)))
	}
	return slack.NewBlockMessage(blocks...), nil
}

// FormatSearchResponse confirms a recorded search and lists the offers that already match it.
func (s *Notifier) FormatSearchResponse(res *trade.SearchResult) (any, error) {
	blocks := []slack.Block{
		section(fmt.Sprintf("🔎 Search recorded: %s", cardLabel(res.CardName, res.Rarity))),
	}
	if len(res.MatchedOffers) == 0 {
		blocks = append(blocks, contextLine("No offers yet. You will get a message when someone offers it."))
		return slack.NewBlockMessage(blocks...), nil
	}

	blocks = append(blocks, header("🎯 Already offered by"))
	for i, o := range res.MatchedOffers {
		if i == maxListed {
			break
		}
		blocks = append(blocks, slack.NewSectionBlock(
			markdown(fmt.Sprintf("%s offers %s", o.Owner.ContactHandle(), cardLabel(o.DisplayName, o.Rarity))),
			nil,
			slack.NewAccessory(completeButton(res.SearchID, o.ID)),
		))
	}
	return slack.NewBlockMessage(truncated(blocks, len(res.MatchedOffers))...), nil
}

// FormatListingsResponse lists a user's own offers or searches.
func (s *Notifier) FormatListingsResponse(kind trade.Kind, listings []trade.Listing) (any, error) {
	title := "📦 Your offers"
	if kind == trade.KindSearch {
		title = "🔎 Your searches"
	}
	blocks := []slack.Block{header(title)}
	if len(listings) == 0 {
		blocks = append(blocks, section(fmt.Sprintf("You have no %ss.", kind)))
		return slack.NewBlockMessage(blocks...), nil
	}

	var lines []string
	for i, l := range listings {
		if i == maxListed {
			break
		}
		lines = append(lines, fmt.Sprintf("• %s  _%s_", cardLabel(l.DisplayName, l.Rarity), l.CreatedAt.Format("Jan 2")))
	}
	blocks = append(blocks, section(strings.Join(lines, "\n")))
	return slack.NewBlockMessage(truncated(blocks, len(listings))...), nil
}

// FormatAvailableCardsResponse lists every offered card and who offers it.
func (s *Notifier) FormatAvailableCardsResponse(rows []trade.CardListing) (any, error) {
	blocks := []slack.Block{header("🃏 Available cards")}
	if len(rows) == 0 {
		blocks = append(blocks, section("No cards are on offer right now."))
		return slack.NewBlockMessage(blocks...), nil
	}

	var lines []string
	for i, r := range rows {
		if i == maxListed {
			break
		}
		lines = append(lines, fmt.Sprintf("• %s: %s", cardLabel(r.DisplayName, r.Rarity), strings.Join(r.Owners, ", ")))
	}
	blocks = append(blocks, section(strings.Join(lines, "\n")))
	return slack.NewBlockMessage(truncated(blocks, len(rows))...), nil
}

// FormatUserMatchesResponse lists the trades available for the user's searches.
func (s *Notifier) FormatUserMatchesResponse(matches []trade.UserMatch) (any, error) {
	blocks := []slack.Block{header("🤝 Your matches")}
	if len(matches) == 0 {
		blocks = append(blocks, section("None of your searches has a matching offer yet."))
		return slack.NewBlockMessage(blocks...), nil
	}

	for i, m := range matches {
		if i == maxListed {
			break
		}
		blocks = append(blocks, slack.NewSectionBlock(
			markdown(fmt.Sprintf("%s from %s", cardLabel(m.CardName, m.Rarity), m.CounterpartyHandle)),
			nil,
			slack.NewAccessory(completeButton(m.SearchID, m.OfferID)),
		))
	}
	return slack.NewBlockMessage(truncated(blocks, len(matches))...), nil
}

// FormatCompletionResponse reports the outcome of a completion request.
func (s *Notifier) FormatCompletionResponse(res *trade.CompletionResult) (any, error) {
	if res.AlreadyCompleted {
		return slack.NewBlockMessage(section("ℹ️ This trade was already completed.")), nil
	}
	return slack.NewBlockMessage(section("🎉 Trade completed! Both listings have been removed.")), nil
}

// FormatSetPickerResponse asks which set the card comes from, one button per set.
func (s *Notifier) FormatSetPickerResponse(flow conversation.Flow, sets []trade.CardSet) (any, error) {
	buttons := make([]slack.BlockElement, 0, len(sets))
	for i, set := range sets {
		if i == maxListed {
			break
		}
		value, err := notifier.SetValue(set.Code, flow)
		if err != nil {
			log.Error("Failed to encode set choice", "set", set.Code, "error", err)
			return nil, err
		}
		label := set.Name
		if label == "" {
			label = set.Code
		}
		buttons = append(buttons, slack.NewButtonBlockElement(notifier.ActionID(notifier.ActionPickSet, i), value, plain(label)))
	}

	blocks := []slack.Block{section(fmt.Sprintf("Which set is the card you want to %s from?", flow.Intent))}
	for start := 0; start < len(buttons); start += maxActionElements {
		end := min(start+maxActionElements, len(buttons))
		blockID := fmt.Sprintf("%s_%d", notifier.ActionPickSet, start/maxActionElements)
		blocks = append(blocks, slack.NewActionBlock(blockID, buttons[start:end]...))
	}
	return slack.NewBlockMessage(truncated(blocks, len(sets))...), nil
}

// FormatCardNamePromptResponse asks for the card name once set and rarity are
// known. Pressing Enter in the input sends the name back as a block action.
func (s *Notifier) FormatCardNamePromptResponse(flow conversation.Flow) (any, error) {
	blockID, err := notifier.CardBlockID(flow)
	if err != nil {
		log.Error("Failed to encode card name prompt", "error", err)
		return nil, err
	}
	input := slack.NewPlainTextInputBlockElement(plain("e.g. Charizard ex"), notifier.ActionEnterCard)
	block := slack.NewInputBlock(blockID, plain("Card name"), nil, input)
	block.DispatchAction = true

	prompt := fmt.Sprintf("Which %s card do you want to %s? Type its name and press Enter.", flow.Rarity.Symbol(), flow.Intent)
	return slack.NewBlockMessage(section(prompt), block), nil
}

// FormatRarityPickerResponse asks for the rarity of a card, one button per rarity.
func (s *Notifier) FormatRarityPickerResponse(flow conversation.Flow) (any, error) {
	buttons := make([]slack.BlockElement, 0, len(card.Rarities()))
	for _, r := range card.Rarities() {
		value, err := notifier.RarityValue(string(r), flow)
		if err != nil {
			log.Error("Failed to encode rarity choice", "error", err)
			return nil, err
		}
		buttons = append(buttons, slack.NewButtonBlockElement(notifier.ActionID(notifier.ActionPickRarity, len(buttons)), value, plain(r.Symbol())))
	}

	prompt := fmt.Sprintf("Which rarity is your *%s*?", flow.CardName)
	if flow.CardName == "" {
		prompt = "Which rarity is the card?"
	}
	blocks := []slack.Block{
		section(prompt),
		slack.NewActionBlock(notifier.ActionPickRarity, buttons...),
	}
	return slack.NewBlockMessage(blocks...), nil
}

// FormatCardLookupResponse lists reference cards resembling the query.
func (s *Notifier) FormatCardLookupResponse(query string, defs []trade.CardDefinition) (any, error) {
	if len(defs) == 0 {
		return slack.NewBlockMessage(section(fmt.Sprintf("No cards resembling _%s_.", query))), nil
	}
	lines := make([]string, 0, len(defs))
	for _, d := range defs {
		lines = append(lines, fmt.Sprintf("• %s  `%s`", cardLabel(d.CardName, d.Rarity), d.SetCode))
	}
	blocks := []slack.Block{
		header(fmt.Sprintf("📚 Cards like \"%s\"", query)),
		section(strings.Join(lines, "\n")),
	}
	return slack.NewBlockMessage(blocks...), nil
}

// FormatErrorResponse wraps a user-facing error message.
func (s *Notifier) FormatErrorResponse(message string) (any, error) {
	return slack.NewBlockMessage(section("⚠️ " + message)), nil
}
