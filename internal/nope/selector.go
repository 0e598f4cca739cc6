package nope

import (
	"fmt"

	"github.com/nope-cardgame/nopebot/internal/models"
)

// Config carries every policy knob of the selector so that behavior is
// explicit and reproducible in tests. Zero-value fields are replaced
// with the stock defaults by NewSelector.
type Config struct {
	// Weights tunes number-set scoring, see Weights.
	Weights Weights

	// ActionOrder is the discard priority among action card kinds.
	ActionOrder []models.CardKind

	// DefaultNominateAmount is the amount sent with a nominate when no
	// escalation applies.
	DefaultNominateAmount int

	// EscalatedNominateAmount is sent instead when the target holds at
	// least EscalateTargetCards known cards and either the triggering
	// card is a full wildcard or the own hand holds fewer than
	// EscalateOwnMatching cards of the chosen color.
	EscalatedNominateAmount int
	EscalateTargetCards     int
	EscalateOwnMatching     int

	// SendNominateColor controls whether a chosen color is sent along
	// with wildcard nominates. The server contract around omitting the
	// color is unverified, so this stays a switch.
	SendNominateColor bool

	// StaticNominateColor, when set, overrides the
	// least-represented-color heuristic with a fixed choice.
	StaticNominateColor models.Color
}

// DefaultConfig returns the stock policy configuration.
func DefaultConfig() Config {
	return Config{
		Weights:                 DefaultWeights,
		ActionOrder:             DefaultActionOrder,
		DefaultNominateAmount:   1,
		EscalatedNominateAmount: 3,
		EscalateTargetCards:     3,
		EscalateOwnMatching:     3,
		SendNominateColor:       true,
	}
}

// Selector computes the single action to play for one actionable
// snapshot. It holds no per-game state: deciding twice on the same
// snapshot yields the same action.
type Selector struct {
	cfg Config
}

// NewSelector builds a selector, filling unset config fields with the
// defaults from DefaultConfig.
func NewSelector(cfg Config) *Selector {
	def := DefaultConfig()
	if cfg.Weights == (Weights{}) {
		cfg.Weights = def.Weights
	}
	if len(cfg.ActionOrder) == 0 {
		cfg.ActionOrder = def.ActionOrder
	}
	if cfg.DefaultNominateAmount < 1 {
		cfg.DefaultNominateAmount = def.DefaultNominateAmount
	}
	if cfg.EscalatedNominateAmount < 1 {
		cfg.EscalatedNominateAmount = def.EscalatedNominateAmount
	}
	if cfg.EscalateTargetCards < 1 {
		cfg.EscalateTargetCards = def.EscalateTargetCards
	}
	if cfg.EscalateOwnMatching < 1 {
		cfg.EscalateOwnMatching = def.EscalateOwnMatching
	}
	return &Selector{cfg: cfg}
}

// Decide maps one snapshot to at most one action. A nil action with a
// nil error means the state calls for observation only (game start,
// game end, cancelled). Errors are reserved for invariant violations;
// having no playable card is handled by the take/say-nope fallback and
// is never an error.
func (s *Selector) Decide(g *models.Game) (*models.Action, error) {
	switch g.State {
	case models.StateGameStart, models.StateGameEnd, models.StateCancelled:
		return nil, nil

	case models.StateNominateFlipped:
		return s.decideNominateFlipped(g)

	case models.StateTurnStart, models.StateCardDrawn:
		return s.decideTurn(g)
	}
	return nil, fmt.Errorf("%w: unknown game state %q", ErrIllegalCardState, g.State)
}

// decideNominateFlipped answers the opening situation where the flipped
// start card is itself a nominate: the client must act as if it had
// just played that card, sending a nominate with no cards of its own.
func (s *Selector) decideNominateFlipped(g *models.Game) (*models.Action, error) {
	if len(g.DiscardPile) == 0 {
		return nil, ErrEmptyPile
	}
	flipped := g.DiscardPile[0]
	if flipped.Kind != models.KindNominate {
		return nil, fmt.Errorf("%w: state is nominate_flipped but top card is %q", ErrIllegalCardState, flipped.Kind)
	}
	return s.buildNominate(g, nil, flipped, "answering the flipped nominate start card")
}

// decideTurn implements the turn_start/card_drawn policy. The effective
// top card decides which sub-policy applies: a nominate top means the
// client must answer the nomination (number sets first), anything else
// follows the standard policy (action cards first).
func (s *Selector) decideTurn(g *models.Game) (*models.Action, error) {
	top, err := EffectiveTop(g.DiscardPile)
	if err != nil {
		return nil, err
	}
	colors, err := RequiredColors(top, g)
	if err != nil {
		return nil, err
	}
	amount, err := RequiredAmount(top, g)
	if err != nil {
		return nil, err
	}

	hand := s.hand(g)

	if top.Kind == models.KindNominate {
		if set := FindNumberSet(colors, amount, hand, s.cfg.Weights); len(set) > 0 {
			return models.DiscardAction(set, fmt.Sprintf("matching the nominated %d %s card(s)", amount, colors[0])), nil
		}
		if actionCards := FindActionCards(colors, hand, s.cfg.ActionOrder); len(actionCards) > 0 {
			return s.playActionCard(g, actionCards[0])
		}
		return s.fallback(g), nil
	}

	if actionCards := FindActionCards(colors, hand, s.cfg.ActionOrder); len(actionCards) > 0 {
		return s.playActionCard(g, actionCards[0])
	}
	if set := FindNumberSet(colors, amount, hand, s.cfg.Weights); len(set) > 0 {
		return models.DiscardAction(set, fmt.Sprintf("discarding the best set of %d", amount)), nil
	}
	return s.fallback(g), nil
}

// fallback is the policy-gap exit: draw once per turn, then concede the
// turn by saying nope. Reaching it is expected play, not an error.
func (s *Selector) fallback(g *models.Game) *models.Action {
	if g.State == models.StateCardDrawn {
		return models.SayNopeAction("drew a card and still cannot play anything")
	}
	return models.TakeAction("no playable set, drawing a card")
}

// playActionCard turns the chosen action card into an outbound action.
// Nominate cards need the full parameter sub-policy; reset and
// invisible cards are plain single-card discards.
func (s *Selector) playActionCard(g *models.Game, card models.Card) (*models.Action, error) {
	switch card.Kind {
	case models.KindNominate:
		return s.buildNominate(g, []models.Card{card}, card, fmt.Sprintf("playing nominate card %q", card.Name))
	case models.KindReset, models.KindInvisible:
		return models.DiscardAction([]models.Card{card}, fmt.Sprintf("playing action card %q", card.Name)), nil
	}
	return nil, fmt.Errorf("%w: no selection branch for action card kind %q", ErrIllegalCardState, card.Kind)
}

// buildNominate assembles the nominate parameters: target player,
// optional color (wildcards only) and amount. The trigger card is the
// nominate being played, or the flipped start card when cards is empty.
func (s *Selector) buildNominate(g *models.Game, cards []models.Card, trigger models.Card, explanation string) (*models.Action, error) {
	target, err := s.nominationTarget(g)
	if err != nil {
		return nil, err
	}

	color := s.nominationColor(g)
	amount := s.nominationAmount(g, target, trigger, color)

	// Only wildcard nominates can express a color choice at all.
	sendColor := models.Color("")
	if trigger.IsWildcard() && s.cfg.SendNominateColor {
		sendColor = color
	}
	return models.NominateAction(cards, target, sendColor, amount, explanation), nil
}

// nominationTarget picks the opponent with the fewest known cards; ties
// fall to snapshot list order, and when no opponent's count is known
// the first eligible player is taken.
func (s *Selector) nominationTarget(g *models.Game) (*models.Player, error) {
	self := ""
	if g.CurrentPlayer != nil {
		self = g.CurrentPlayer.SocketID
	}

	var best *models.Player
	bestCount := 0
	for i := range g.Players {
		p := &g.Players[i]
		if p.SocketID == self || p.Disqualified {
			continue
		}
		count, known := p.KnownCardCount()
		if !known {
			if best == nil {
				best = p
				bestCount = -1
			}
			continue
		}
		if best == nil || bestCount == -1 || count < bestCount {
			best = p
			bestCount = count
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no eligible player to nominate", ErrIllegalCardState)
	}
	return best, nil
}

// nominationColor picks the color the client holds the fewest cards of,
// so a counter-nomination in that color is cheap to dodge next turn.
// Ties fall to palette order.
func (s *Selector) nominationColor(g *models.Game) models.Color {
	if s.cfg.StaticNominateColor != "" {
		return s.cfg.StaticNominateColor
	}
	counts := ColorCounts(s.hand(g))
	chosen := models.AllColors[0]
	for _, color := range models.AllColors[1:] {
		if counts[color] < counts[chosen] {
			chosen = color
		}
	}
	return chosen
}

// nominationAmount applies the escalation heuristic from Config.
func (s *Selector) nominationAmount(g *models.Game, target *models.Player, trigger models.Card, color models.Color) int {
	targetCount, known := target.KnownCardCount()
	if !known || targetCount < s.cfg.EscalateTargetCards {
		return s.cfg.DefaultNominateAmount
	}

	matching := 0
	for _, card := range s.hand(g) {
		if card.HasColor(color) {
			matching++
		}
	}
	if trigger.IsWildcard() || matching < s.cfg.EscalateOwnMatching {
		return s.cfg.EscalatedNominateAmount
	}
	return s.cfg.DefaultNominateAmount
}

// hand returns the client's own cards from the snapshot. Only the
// current player's cards are populated by the server, and Decide is
// only invoked on snapshots where the client holds the turn.
func (s *Selector) hand(g *models.Game) []models.Card {
	if g.CurrentPlayer == nil {
		return nil
	}
	return g.CurrentPlayer.Cards
}
