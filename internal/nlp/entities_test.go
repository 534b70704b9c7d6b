package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findByLabel(entities []Entity, label string) []Entity {
	var out []Entity
	for _, e := range entities {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out
}

func TestPatternRecognizer_Labels(t *testing.T) {
	recognizer := NewPatternRecognizer()

	entities := recognizer.Recognize("a house in California worth $250,000, built 1995, with 3 bedrooms")

	money := findByLabel(entities, "MONEY")
	require.Len(t, money, 1)
	assert.Equal(t, "$250,000", money[0].Text)
	assert.Equal(t, labelExplanations["MONEY"], money[0].Description)

	gpe := findByLabel(entities, "GPE")
	require.Len(t, gpe, 1)
	assert.Equal(t, "California", gpe[0].Text)

	dates := findByLabel(entities, "DATE")
	require.Len(t, dates, 1)
	assert.Equal(t, "1995", dates[0].Text)

	cardinals := findByLabel(entities, "CARDINAL")
	require.Len(t, cardinals, 1)
	assert.Equal(t, "3", cardinals[0].Text)
}

func TestPatternRecognizer_MoneyWinsOverCardinal(t *testing.T) {
	entities := NewPatternRecognizer().Recognize("asking $45,000.00 firm")

	require.Len(t, entities, 1)
	assert.Equal(t, "MONEY", entities[0].Label)
	assert.Equal(t, "$45,000.00", entities[0].Text)
}

func TestPatternRecognizer_MultiWordPlace(t *testing.T) {
	entities := NewPatternRecognizer().Recognize("an apartment in New York City")

	gpe := findByLabel(entities, "GPE")
	require.NotEmpty(t, gpe)
	assert.Equal(t, "New York City", gpe[0].Text)
}

func TestPatternRecognizer_SortedByPosition(t *testing.T) {
	text := "Sold in Toronto during March for $98,500"
	entities := NewPatternRecognizer().Recognize(text)
	require.NotEmpty(t, entities)

	lastIndex := -1
	for _, e := range entities {
		idx := indexFrom(text, e.Text, lastIndex)
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, lastIndex)
		lastIndex = idx
	}
}

func indexFrom(text, sub string, after int) int {
	for i := after + 1; i+len(sub) <= len(text); i++ {
		if text[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestPatternRecognizer_NoMatches(t *testing.T) {
	assert.Nil(t, NewPatternRecognizer().Recognize("a plain lowercase description"))
}
