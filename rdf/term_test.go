package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermStringIsNonEmptyForEveryKind(t *testing.T) {
	cases := []Term{
		NewIRI("http://example.org/a"),
		NewBlankNode("b0"),
		NewPlainLiteral("hello", ""),
		NewPlainLiteral("bonjour", "fr"),
		NewTypedLiteral("42", XSDInteger),
		NewVariable("x"),
	}
	for _, tm := range cases {
		assert.NotEmpty(t, tm.String(), "term %+v produced empty canonical string", tm)
	}
}

func TestEqualUsesCanonicalForm(t *testing.T) {
	a := NewIRI("http://example.org/a")
	b := NewIRI("http://example.org/a")
	c := NewIRI("http://example.org/b")
	assert.True(t, a.Equal(b), "expected equal IRIs to compare equal")
	assert.False(t, a.Equal(c), "expected distinct IRIs to compare unequal")
}

func TestUnboundIsDistinguished(t *testing.T) {
	assert.True(t, Unbound.IsUnbound(), "Unbound must report IsUnbound")
	assert.False(t, NewIRI("x").IsUnbound(), "ground IRI must not report IsUnbound")
}

func TestCompareTermsNumericOrdering(t *testing.T) {
	one := Integer(1)
	two := Integer(2)
	assert.Less(t, CompareTerms(one, two), 0, "expected 1 < 2 numerically")
	assert.Greater(t, CompareTerms(two, one), 0, "expected 2 > 1 numerically")
	assert.Equal(t, 0, CompareTerms(one, Integer(1)), "expected 1 == 1")
}

// Mixed-type comparison falls back to a fixed rank order: blank node < IRI <
// numeric < string.
func TestCompareTermsMixedTypeFallsBackToRank(t *testing.T) {
	bn := NewBlankNode("b0")
	iri := NewIRI("http://example.org/a")
	num := Integer(1)
	str := StringLiteral("z")
	assert.Less(t, CompareTerms(bn, iri), 0, "expected blank node to rank below IRI")
	assert.Less(t, CompareTerms(iri, num), 0, "expected IRI to rank below numeric literal")
	assert.Less(t, CompareTerms(num, str), 0, "expected numeric literal to rank below string literal")
}

func TestNumericValueExtraction(t *testing.T) {
	v, ok := Double(3.5).NumericValue()
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	_, ok = StringLiteral("nope").NumericValue()
	assert.False(t, ok, "expected string literal to not be numeric")
}
