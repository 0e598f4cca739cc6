package models

import "fmt"

// ActionType discriminates the outbound actions a client may play.
type ActionType string

const (
	ActionTake     ActionType = "take"
	ActionDiscard  ActionType = "discard"
	ActionNominate ActionType = "nominate"
	ActionNope     ActionType = "nope"
)

// Action is the single decision a client emits for one turn. It is a
// tagged union over the four playable action kinds; exactly one is
// produced per actionable snapshot and it is never retried or amended.
//
// Cards is always serialized, as an explicit empty list for take,
// say-nope and the flipped-start-card nominate. The Nominated* fields
// are meaningful for nominate only; NominatedColor stays empty when
// the played card dictates its own color.
type Action struct {
	Type            ActionType `json:"type"`
	Explanation     string     `json:"explanation"`
	Cards           []Card     `json:"cards"`
	NominatedPlayer *Player    `json:"nominatedPlayer,omitempty"`
	NominatedColor  Color      `json:"nominatedColor,omitempty"`
	NominatedAmount int        `json:"nominatedAmount,omitempty"`
}

// TakeAction builds a draw-a-card action.
func TakeAction(explanation string) *Action {
	return &Action{Type: ActionTake, Explanation: explanation, Cards: []Card{}}
}

// DiscardAction builds a discard action. Card order matters: index 0
// lands on top of the pile.
func DiscardAction(cards []Card, explanation string) *Action {
	return &Action{Type: ActionDiscard, Explanation: explanation, Cards: cards}
}

// NominateAction builds a nominate action. Cards is empty when
// answering a flipped nominate start card; the wire contract wants an
// explicit empty list in that case, never an absent field. Color is
// only set when the played card is a full wildcard.
func NominateAction(cards []Card, target *Player, color Color, amount int, explanation string) *Action {
	if cards == nil {
		cards = []Card{}
	}
	return &Action{
		Type:            ActionNominate,
		Explanation:     explanation,
		Cards:           cards,
		NominatedPlayer: target,
		NominatedColor:  color,
		NominatedAmount: amount,
	}
}

// SayNopeAction builds a say-nope action, played when the client can
// neither discard nor draw again.
func SayNopeAction(explanation string) *Action {
	return &Action{Type: ActionNope, Explanation: explanation, Cards: []Card{}}
}

// Validate checks the per-kind payload invariants. The transport layer
// refuses to send an action that fails validation.
func (a *Action) Validate() error {
	switch a.Type {
	case ActionTake, ActionNope:
		if len(a.Cards) != 0 {
			return fmt.Errorf("%s action must not carry cards", a.Type)
		}
	case ActionDiscard:
		if len(a.Cards) == 0 {
			return fmt.Errorf("discard action requires at least one card")
		}
	case ActionNominate:
		if len(a.Cards) > 0 && a.Cards[0].Kind != KindNominate {
			return fmt.Errorf("nominate action must lead with a nominate card, got %q", a.Cards[0].Kind)
		}
		if a.NominatedPlayer == nil {
			return fmt.Errorf("nominate action requires a nominated player")
		}
		if a.NominatedAmount < 1 {
			return fmt.Errorf("nominate action requires an amount >= 1, got %d", a.NominatedAmount)
		}
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}
