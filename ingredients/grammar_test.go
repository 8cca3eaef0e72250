package ingredients

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestGrammarNestedGroupsStayOpaque(t *testing.T) {
	g := NewGrammar(TerminatorNone, PercentDecimal)

	record, err := g.Extract(context.Background(), "FYLL 62% (SKINKE 40% (SVINEKJØTT, SALT), OST 20%), BRØD 38%")
	require.NoError(t, err)

	assert.Equal(t, Record{
		{Name: "FYLL", Percent: 62, Sub: []string{"skinke 40%", "ost 20%"}},
		{Name: "BRØD", Percent: 38, Sub: []string{}},
	}, record)
}

func TestGrammarColonDialect(t *testing.T) {
	g := NewGrammar(TerminatorColon, PercentDecimal)
	label := "Ingredienser: FYLL (62%): skinke (svinekjøtt, salt), Ost, ost. " +
		"BRØD (38,5 %): hvetemel, vann, gjær, salt, vann."

	record, err := g.Extract(context.Background(), label)
	require.NoError(t, err)

	assert.Equal(t, Record{
		{Name: "FYLL", Percent: 62, Sub: []string{"skinke", "ost"}},
		{Name: "BRØD", Percent: 38.5, Sub: []string{"hvetemel", "vann", "gjær", "salt"}},
	}, record)
}

func TestGrammarNoBreakSpaces(t *testing.T) {
	tests := []struct {
		name       string
		terminator Terminator
		label      string
		want       Record
	}{
		{
			"before percent sign",
			TerminatorColon,
			"FYLL (62\u00a0%): ost, BRØD (38\u00a0%): mel",
			Record{
				{Name: "FYLL", Percent: 62, Sub: []string{"ost"}},
				{Name: "BRØD", Percent: 38, Sub: []string{"mel"}},
			},
		},
		{
			"between name and parenthesis",
			TerminatorColon,
			"FYLL\u00a0(62%): ost",
			Record{{Name: "FYLL", Percent: 62, Sub: []string{"ost"}}},
		},
		{
			"bare percent",
			TerminatorNone,
			"TØRKET\u00a0TOMAT\u00a062\u202f% (tomat,\u00a0salt)",
			Record{{Name: "TØRKET TOMAT", Percent: 62, Sub: []string{"tomat", "salt"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewGrammar(tt.terminator, PercentDecimal).Extract(context.Background(), tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, record)
		})
	}
}

func TestGrammarDecomposedHeaderNames(t *testing.T) {
	g := NewGrammar(TerminatorColon, PercentDecimal)

	record, err := g.Extract(context.Background(), norm.NFD.String("ÅKERBÆR (40%): vann, BRØD (60%): mel"))
	require.NoError(t, err)

	assert.Equal(t, Record{
		{Name: "ÅKERBÆR", Percent: 40, Sub: []string{"vann"}},
		{Name: "BRØD", Percent: 60, Sub: []string{"mel"}},
	}, record)
}

func TestGrammarColonDialectIgnoresBareHeaders(t *testing.T) {
	g := NewGrammar(TerminatorColon, PercentDecimal)

	groups, err := g.ExtractGroups("FYLL 62% (skinke), BRØD 38%")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGrammarHeaderNames(t *testing.T) {
	g := NewGrammar(TerminatorNone, PercentDecimal)

	groups, err := g.ExtractGroups("SKINKE OG OST 40% (svin), RØMME-DRESSING (10%) løk, TØRKET  TOMAT 5%")
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, "SKINKE OG OST", groups[0].Name)
	assert.Equal(t, "RØMME-DRESSING", groups[1].Name)
	assert.Equal(t, "TØRKET TOMAT", groups[2].Name)
	assert.Equal(t, " løk, ", groups[1].SubSpan)
}

func TestGrammarPercentFormats(t *testing.T) {
	tests := []struct {
		name   string
		format PercentFormat
		label  string
		want   float64
	}{
		{"decimal comma", PercentDecimal, "SAUS (12,5 %)", 12.5},
		{"decimal point", PercentDecimal, "SAUS (12.25%)", 12.25},
		{"integer in decimal dialect", PercentDecimal, "SAUS 40%", 40},
		{"integer dialect", PercentInteger, "SAUS (40%)", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := NewGrammar(TerminatorNone, tt.format).ExtractGroups(tt.label)
			require.NoError(t, err)
			require.Len(t, groups, 1)
			assert.Equal(t, tt.want, groups[0].Percent)
		})
	}
}

func TestGrammarMalformedPercentDropsGroup(t *testing.T) {
	tests := []struct {
		name   string
		format PercentFormat
		label  string
		token  string
	}{
		{"fraction in integer dialect", PercentInteger, "SAUS (12,5%) tomat, BRØD (40%) mel", "12,5"},
		{"too many separators", PercentDecimal, "SAUS (1,2,5%) tomat, BRØD (40%) mel", "1,2,5"},
		{"three fractional digits", PercentDecimal, "SAUS (12,125%) tomat, BRØD (40%) mel", "12,125"},
		{"above hundred", PercentDecimal, "SAUS (140%) tomat, BRØD (40%) mel", "140"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewGrammar(TerminatorNone, tt.format).Extract(context.Background(), tt.label)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPercent)

			var perr *PercentError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, "SAUS", perr.Group)
			assert.Equal(t, tt.token, perr.Token)

			assert.Equal(t, Record{{Name: "BRØD", Percent: 40, Sub: []string{"mel"}}}, record)
		})
	}
}

func TestGrammarNoMatch(t *testing.T) {
	g := NewGrammar(TerminatorNone, PercentDecimal)

	for _, label := range []string{"", "   ", "no percent here", "Vann, salt, sukker 5%", "ekstraFYLL 5%"} {
		record, err := g.Extract(context.Background(), label)
		require.NoError(t, err, label)
		assert.Empty(t, record, label)
		assert.NotNil(t, record, label)
	}
}

func TestGrammarIsDeterministic(t *testing.T) {
	g := NewGrammar(TerminatorNone, PercentDecimal)
	label := "FYLL 62% (SKINKE 40% (SVINEKJØTT, SALT), OST 20%), BRØD 38% (hvetemel, vann)"

	first, err := g.Extract(context.Background(), label)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := g.Extract(context.Background(), label)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGrammarKeepsPercentsVerbatim(t *testing.T) {
	g := NewGrammar(TerminatorColon, PercentDecimal)

	record, err := g.Extract(context.Background(), "FYLL (70%): ost. BRØD (45%): mel.")
	require.NoError(t, err)
	require.Len(t, record, 2)
	assert.Equal(t, 70.0, record[0].Percent)
	assert.Equal(t, 45.0, record[1].Percent)
}

func TestCleanSubSpan(t *testing.T) {
	assert.Equal(t, "a (b), c", cleanSubSpan(" (a (b), c), "))
	assert.Equal(t, "(a), (b)", cleanSubSpan("(a), (b)."))
	assert.Equal(t, "a, b", cleanSubSpan(": a, b. "))
	assert.Equal(t, "", cleanSubSpan(" , "))
}

func TestParseDialectOptions(t *testing.T) {
	term, err := ParseTerminator("Colon")
	require.NoError(t, err)
	assert.Equal(t, TerminatorColon, term)

	term, err = ParseTerminator("")
	require.NoError(t, err)
	assert.Equal(t, TerminatorNone, term)

	_, err = ParseTerminator("semicolon")
	assert.Error(t, err)

	format, err := ParsePercentFormat("integer")
	require.NoError(t, err)
	assert.Equal(t, PercentInteger, format)

	_, err = ParsePercentFormat("roman")
	assert.Error(t, err)
}
