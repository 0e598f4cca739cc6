package nope

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nope-cardgame/nopebot/internal/models"
)

// num builds a number card for tests.
func num(value int, colors ...models.Color) models.Card {
	name := fmt.Sprintf("%d", value)
	for _, c := range colors {
		name += " " + string(c)
	}
	return models.Card{Kind: models.KindNumber, Value: value, Colors: colors, Name: name}
}

// action builds a non-number card for tests.
func action(kind models.CardKind, colors ...models.Color) models.Card {
	name := string(kind)
	for _, c := range colors {
		name += " " + string(c)
	}
	return models.Card{Kind: kind, Colors: colors, Name: name}
}

func wildcardNominate() models.Card {
	return action(models.KindNominate, models.AllColors...)
}

func TestEffectiveTopEmptyPile(t *testing.T) {
	_, err := EffectiveTop(nil)
	assert.ErrorIs(t, err, ErrEmptyPile)
}

func TestEffectiveTopSkipsInvisibleCards(t *testing.T) {
	target := num(2, models.ColorRed)

	for k := 0; k < 4; k++ {
		pile := []models.Card{}
		for i := 0; i < k; i++ {
			pile = append(pile, action(models.KindInvisible, models.ColorBlue))
		}
		pile = append(pile, target, num(1, models.ColorGreen))

		top, err := EffectiveTop(pile)
		require.NoError(t, err, "k=%d", k)
		assert.Equal(t, target, top, "k=%d leading invisible cards", k)
	}
}

func TestEffectiveTopAllInvisible(t *testing.T) {
	// Only possible when an invisible card is the single start card.
	last := action(models.KindInvisible, models.ColorYellow)
	pile := []models.Card{
		action(models.KindInvisible, models.ColorRed),
		action(models.KindInvisible, models.ColorBlue),
		last,
	}

	top, err := EffectiveTop(pile)
	require.NoError(t, err)
	assert.Equal(t, last, top)
}

func TestRequiredColorsNumberAndInvisible(t *testing.T) {
	g := &models.Game{}

	colors, err := RequiredColors(num(2, models.ColorRed, models.ColorBlue), g)
	require.NoError(t, err)
	assert.Equal(t, []models.Color{models.ColorRed, models.ColorBlue}, colors)

	colors, err = RequiredColors(action(models.KindInvisible, models.ColorGreen), g)
	require.NoError(t, err)
	assert.Equal(t, []models.Color{models.ColorGreen}, colors)
}

func TestRequiredColorsReset(t *testing.T) {
	colors, err := RequiredColors(action(models.KindReset), &models.Game{})
	require.NoError(t, err)
	assert.Equal(t, models.AllColors, colors)
}

func TestRequiredColorsWildcardNominate(t *testing.T) {
	g := &models.Game{LastNominateColor: models.ColorYellow, LastNominateAmount: 2}

	colors, err := RequiredColors(wildcardNominate(), g)
	require.NoError(t, err)
	assert.Equal(t, []models.Color{models.ColorYellow}, colors)
}

func TestRequiredColorsSingleColorNominate(t *testing.T) {
	g := &models.Game{LastNominateAmount: 1}

	colors, err := RequiredColors(action(models.KindNominate, models.ColorBlue), g)
	require.NoError(t, err)
	assert.Equal(t, []models.Color{models.ColorBlue}, colors)
}

func TestRequiredColorsUnresolvedNominateFails(t *testing.T) {
	// A wildcard nominate without lastNominateColor cannot be matched;
	// reaching plain matching with it is a programming error.
	_, err := RequiredColors(wildcardNominate(), &models.Game{})
	assert.ErrorIs(t, err, ErrIllegalCardState)
}

func TestRequiredAmount(t *testing.T) {
	g := &models.Game{LastNominateAmount: 3}

	amount, err := RequiredAmount(num(2, models.ColorRed), g)
	require.NoError(t, err)
	assert.Equal(t, 2, amount)

	amount, err = RequiredAmount(action(models.KindInvisible, models.ColorBlue), g)
	require.NoError(t, err)
	assert.Equal(t, 1, amount)

	amount, err = RequiredAmount(action(models.KindReset), g)
	require.NoError(t, err)
	assert.Equal(t, 1, amount)

	amount, err = RequiredAmount(wildcardNominate(), g)
	require.NoError(t, err)
	assert.Equal(t, 3, amount)
}

func TestRequiredAmountInvalidCards(t *testing.T) {
	g := &models.Game{}

	_, err := RequiredAmount(models.Card{Kind: models.KindNumber, Colors: []models.Color{models.ColorRed}}, g)
	assert.ErrorIs(t, err, ErrIllegalCardState)

	_, err = RequiredAmount(wildcardNominate(), g)
	assert.ErrorIs(t, err, ErrIllegalCardState)
}
