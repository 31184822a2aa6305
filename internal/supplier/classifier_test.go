package supplier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"united drug by company name",
			"INVOICE\nUnited Drug (Wholesale) Limited\nMagna Business Park, Citywest Road, Dublin 24",
			UnitedDrug,
		},
		{
			"united drug by vat registration",
			"some header\nVAT REG NO. 2226527T\nmore text",
			UnitedDrug,
		},
		{
			"genamed",
			"NiAm Pharma Ltd trading as GenaMed\ninfo@genamed.ie",
			Genamed,
		},
		{
			"iskus",
			"Iskus Health Ltd\nCitywest Business Park\ninfo@iskushealth.com",
			Iskus,
		},
		{
			"feehily with common misspelling",
			"Fehily Pharmacy Supplies",
			Feehily,
		},
		{
			"case insensitive",
			"UNITED DRUG (WHOLESALE) LIMITED",
			UnitedDrug,
		},
		{"no match", "completely unrelated text", Unknown},
		{"empty text", "", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestClassifyTieResolvesToEarliestRegistered(t *testing.T) {
	c := NewClassifier(nil)

	// One pattern hit each for united_drug and iskus; united_drug is
	// registered first and must win the tie.
	text := "United Drug (Wholesale) Limited\nIskus Health Ltd"
	assert.Equal(t, UnitedDrug, c.Classify(text))
}

func TestClassifyHigherScoreWins(t *testing.T) {
	c := NewClassifier(nil)

	// Two iskus hits beat one united_drug hit despite registration order.
	text := "United Drug (Wholesale) Limited\nIskus Health Ltd\ninfo@iskushealth.com"
	assert.Equal(t, Iskus, c.Classify(text))
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := NewClassifier(nil)
	text := "NiAm Pharma Ltd trading as GenaMed invoice"
	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(text))
	}
}
