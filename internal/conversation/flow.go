package conversation

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/trade"
	"github.com/vmihailenco/msgpack/v5"
)

// Step is the position of a user inside a multi-step listing flow.
type Step string

const (
	StepPickSet    Step = "pick_set"
	StepPickRarity Step = "pick_rarity"
	StepEnterCard  Step = "enter_card"
	StepReady      Step = "ready"
)

var (
	ErrInvalidTransition = errors.New("invalid flow transition")
	ErrInvalidFlow       = errors.New("invalid flow")
)

// Flow collects the pieces of an offer or search across several interactions.
// It is a value: every transition returns a new Flow and the server keeps none of
// them, they travel inside interactive message payloads instead.
type Flow struct {
	Intent   trade.Kind  `msgpack:"i"`
	Step     Step        `msgpack:"s"`
	SetCode  string      `msgpack:"c,omitempty"`
	Rarity   card.Rarity `msgpack:"r,omitempty"`
	CardName string      `msgpack:"n,omitempty"`
}

// Start begins a flow that lets the user browse a set first.
func Start(intent trade.Kind) Flow {
	return Flow{Intent: intent, Step: StepPickSet}
}

// StartWithCard begins a flow for a card name the user already typed, so only the
// rarity is missing.
func StartWithCard(intent trade.Kind, cardName string) (Flow, error) {
	name := strings.TrimSpace(cardName)
	if name == "" {
		return Flow{}, fmt.Errorf("%w: empty card name", trade.ErrInvalidInput)
	}
	return Flow{Intent: intent, Step: StepPickRarity, CardName: name}, nil
}

func (f Flow) expect(step Step) error {
	if f.Step != step {
		return fmt.Errorf("%w: at %s, expected %s", ErrInvalidTransition, f.Step, step)
	}
	return nil
}

// ChooseSet records the set and moves on to the rarity.
func (f Flow) ChooseSet(code string) (Flow, error) {
	if err := f.expect(StepPickSet); err != nil {
		return f, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return f, fmt.Errorf("%w: empty set code", trade.ErrInvalidInput)
	}
	f.SetCode = strings.ToLower(code)
	f.Step = StepPickRarity
	return f, nil
}

// ChooseRarity records the rarity. The flow is ready when the card name is
// already known, otherwise it waits for the name.
func (f Flow) ChooseRarity(input string) (Flow, error) {
	if err := f.expect(StepPickRarity); err != nil {
		return f, err
	}
	r, err := card.ParseRarity(input)
	if err != nil {
		return f, fmt.Errorf("%w: %w", trade.ErrInvalidRarity, err)
	}
	f.Rarity = r
	if f.CardName != "" {
		f.Step = StepReady
	} else {
		f.Step = StepEnterCard
	}
	return f, nil
}

// EnterCard records the card name and completes the flow.
func (f Flow) EnterCard(name string) (Flow, error) {
	if err := f.expect(StepEnterCard); err != nil {
		return f, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return f, fmt.Errorf("%w: empty card name", trade.ErrInvalidInput)
	}
	f.CardName = name
	f.Step = StepReady
	return f, nil
}

// Ready reports whether the flow holds everything needed to submit.
func (f Flow) Ready() bool {
	return f.Step == StepReady
}

// Encode packs the flow into a string short enough for a button value.
func (f Flow) Encode() (string, error) {
	b, err := msgpack.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode flow: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode reverses Encode and rejects payloads that do not describe a valid flow.
func Decode(s string) (Flow, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Flow{}, fmt.Errorf("%w: %w", ErrInvalidFlow, err)
	}
	var f Flow
	if err := msgpack.Unmarshal(b, &f); err != nil {
		return Flow{}, fmt.Errorf("%w: %w", ErrInvalidFlow, err)
	}
	if err := f.validate(); err != nil {
		return Flow{}, err
	}
	return f, nil
}

func (f Flow) validate() error {
	if f.Intent != trade.KindOffer && f.Intent != trade.KindSearch {
		return fmt.Errorf("%w: unknown intent %q", ErrInvalidFlow, f.Intent)
	}
	switch f.Step {
	case StepPickSet, StepPickRarity:
	case StepEnterCard:
		if !f.Rarity.Valid() {
			return fmt.Errorf("%w: missing rarity", ErrInvalidFlow)
		}
	case StepReady:
		if !f.Rarity.Valid() || f.CardName == "" {
			return fmt.Errorf("%w: incomplete flow marked ready", ErrInvalidFlow)
		}
	default:
		return fmt.Errorf("%w: unknown step %q", ErrInvalidFlow, f.Step)
	}
	return nil
}
