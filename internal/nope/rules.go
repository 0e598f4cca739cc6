// Package nope implements the turn-decision engine for the Nope card
// game: card matching rules, hand evaluation and the per-turn action
// selection policy. Everything in this package is a pure function of
// the snapshot it is handed; no state is kept between turns.
package nope

import (
	"errors"
	"fmt"

	"github.com/nope-cardgame/nopebot/internal/models"
)

// ErrEmptyPile signals an empty discard pile outside game end. The
// server guarantees a non-empty pile for every actionable snapshot, so
// hitting this means the client is desynchronized and must not keep
// playing.
var ErrEmptyPile = errors.New("discard pile is empty and game has not ended")

// ErrIllegalCardState signals a card that cannot be interpreted in its
// current context, e.g. a nominate card reaching plain color/amount
// matching without resolution. This is a programming error, never a
// normal game situation.
var ErrIllegalCardState = errors.New("illegal card state")

// EffectiveTop resolves the card a discard must match against: the
// first non-invisible card from the top of the pile. Invisible cards
// pass the decision through to the card beneath them. If the pile holds
// only invisible cards the last one is returned; that is only possible
// when an invisible card was flipped as the single start card.
func EffectiveTop(pile []models.Card) (models.Card, error) {
	if len(pile) == 0 {
		return models.Card{}, ErrEmptyPile
	}
	i := 0
	for pile[i].Kind == models.KindInvisible && i < len(pile)-1 {
		i++
	}
	return pile[i], nil
}

// RequiredColors resolves the color set a discard must match, given the
// effective top card and the snapshot it came from.
//
// A wildcard nominate exposes all four colors on the card itself; the
// color that actually has to be matched is the one the nominating
// player chose, which the server records in lastNominateColor. Passing
// a nominate card onward without this resolution is an error.
//
// A reset top clears all positional constraints, so every color is
// allowed.
func RequiredColors(card models.Card, g *models.Game) ([]models.Color, error) {
	switch card.Kind {
	case models.KindNumber, models.KindInvisible:
		return card.Colors, nil
	case models.KindReset:
		return models.AllColors, nil
	case models.KindNominate:
		if !card.IsWildcard() {
			return card.Colors, nil
		}
		if g.LastNominateColor == "" {
			return nil, fmt.Errorf("%w: wildcard nominate on top but no lastNominateColor in snapshot", ErrIllegalCardState)
		}
		return []models.Color{g.LastNominateColor}, nil
	}
	return nil, fmt.Errorf("%w: unknown card kind %q", ErrIllegalCardState, card.Kind)
}

// RequiredAmount resolves how many cards a discard must contain, given
// the effective top card and the snapshot it came from.
//
// Invisible and reset tops require a single card: invisible only ever
// surfaces as the lone start card, and reset lifts the amount
// constraint entirely.
func RequiredAmount(card models.Card, g *models.Game) (int, error) {
	switch card.Kind {
	case models.KindNumber:
		if card.Value < 1 {
			return 0, fmt.Errorf("%w: number card %q without value", ErrIllegalCardState, card.Name)
		}
		return card.Value, nil
	case models.KindInvisible, models.KindReset:
		return 1, nil
	case models.KindNominate:
		if g.LastNominateAmount < 1 {
			return 0, fmt.Errorf("%w: nominate on top but no lastNominateAmount in snapshot", ErrIllegalCardState)
		}
		return g.LastNominateAmount, nil
	}
	return 0, fmt.Errorf("%w: unknown card kind %q", ErrIllegalCardState, card.Kind)
}
