package nope

import (
	"sort"

	"github.com/nope-cardgame/nopebot/internal/models"
)

// Weights tunes the discard scoring heuristic. Both weights are
// positive; ColorBreadth rewards shedding multi-color cards (they are
// the hardest to match later), HandMatch penalizes discarding a card
// while still holding many cards of the same color.
type Weights struct {
	ColorBreadth float64
	HandMatch    float64
}

// DefaultWeights are the tuning used by the stock bot.
var DefaultWeights = Weights{ColorBreadth: 2.0, HandMatch: 0.5}

// DefaultActionOrder is the stock discard priority among action cards.
var DefaultActionOrder = []models.CardKind{
	models.KindNominate,
	models.KindReset,
	models.KindInvisible,
}

type scoredCard struct {
	card  models.Card
	score float64
}

// scoreCard rates one card for discarding; higher is better. The match
// count is taken against the rest of the hand, excluding the card's own
// position.
func scoreCard(hand []models.Card, idx int, w Weights) float64 {
	card := hand[idx]
	matches := 0
	for i, other := range hand {
		if i == idx {
			continue
		}
		if other.Kind == models.KindNumber && other.HasAnyColor(card.Colors) {
			matches++
		}
	}
	return float64(len(card.Colors))*w.ColorBreadth - float64(matches)*w.HandMatch
}

// FindNumberSet searches the hand for the best discardable set of
// number cards: `amount` cards all sharing one of the required colors.
//
// For every candidate color the matching number cards form one
// candidate set; a candidate is only valid if it holds at least
// `amount` cards. Valid candidates are ranked by the mean score of
// their `amount` best cards, and the winning set is returned best-first
// (index 0 is the card that lands on top of the pile), trimmed to
// exactly `amount` cards.
//
// An empty result means no color yields a playable set; that is a
// normal outcome, not an error.
func FindNumberSet(colors []models.Color, amount int, hand []models.Card, w Weights) []models.Card {
	if amount < 1 {
		return nil
	}

	var best []scoredCard
	bestScore := 0.0

	for _, color := range colors {
		var candidate []scoredCard
		for i, handCard := range hand {
			if handCard.Kind == models.KindNumber && handCard.HasColor(color) {
				candidate = append(candidate, scoredCard{card: handCard, score: scoreCard(hand, i, w)})
			}
		}
		if len(candidate) < amount {
			continue
		}

		sort.SliceStable(candidate, func(i, j int) bool {
			return candidate[i].score > candidate[j].score
		})

		total := 0.0
		for _, sc := range candidate[:amount] {
			total += sc.score
		}
		mean := total / float64(amount)

		if best == nil || mean > bestScore {
			best = candidate[:amount]
			bestScore = mean
		}
	}

	if best == nil {
		return nil
	}
	set := make([]models.Card, len(best))
	for i, sc := range best {
		set[i] = sc.card
	}
	return set
}

// FindActionCards returns the playable action cards of the hand in the
// configured priority order: for each kind in `order`, nominate and
// invisible cards must share a color with the required set while reset
// cards are always playable.
func FindActionCards(colors []models.Color, hand []models.Card, order []models.CardKind) []models.Card {
	var playable []models.Card
	for _, kind := range order {
		for _, card := range hand {
			if card.Kind != kind {
				continue
			}
			switch kind {
			case models.KindReset:
				playable = append(playable, card)
			case models.KindNominate, models.KindInvisible:
				if card.HasAnyColor(colors) {
					playable = append(playable, card)
				}
			}
		}
	}
	return playable
}

// ColorCounts tallies how many hand cards carry each color. Wildcards
// count toward every color they expose.
func ColorCounts(hand []models.Card) map[models.Color]int {
	counts := make(map[models.Color]int, len(models.AllColors))
	for _, card := range hand {
		for _, color := range card.Colors {
			counts[color]++
		}
	}
	return counts
}
