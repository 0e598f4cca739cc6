package models

// Color is one of the four card colors used by the Nope server.
type Color string

const (
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
)

// AllColors lists the full palette in the server's canonical order.
// Tie-breaking across the codebase follows this order.
var AllColors = []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}

// CardKind discriminates the four card types of the game.
type CardKind string

const (
	KindNumber    CardKind = "number"
	KindNominate  CardKind = "nominate"
	KindReset     CardKind = "reset"
	KindInvisible CardKind = "invisible"
)

// Card is a single Nope card as serialized by the server.
// Value is only meaningful for number cards; wildcards carry more than
// one color.
type Card struct {
	Kind   CardKind `json:"type"`
	Value  int      `json:"value,omitempty"`
	Colors []Color  `json:"colors"`
	Name   string   `json:"name"`
}

// HasColor reports whether the card carries the given color.
func (c Card) HasColor(color Color) bool {
	for _, cc := range c.Colors {
		if cc == color {
			return true
		}
	}
	return false
}

// HasAnyColor reports whether the card shares at least one color with
// the given set.
func (c Card) HasAnyColor(colors []Color) bool {
	for _, color := range colors {
		if c.HasColor(color) {
			return true
		}
	}
	return false
}

// IsWildcard reports whether the card exposes the full four-color
// palette. Nominate wildcards are the relevant case: their effective
// color is chosen by the nominating player, not by the card itself.
func (c Card) IsWildcard() bool {
	if len(c.Colors) < len(AllColors) {
		return false
	}
	for _, color := range AllColors {
		if !c.HasColor(color) {
			return false
		}
	}
	return true
}
