package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mirella-sparql/mirella/rdf"
)

func name(n string) rdf.Term { return rdf.NewIRI("http://example.org/" + n) }

func TestJoinCompatibilityMergesSharedColumns(t *testing.T) {
	left := NewTable([]string{"x", "y"})
	left.AddRow(Row{name("a"), name("b")})
	right := NewTable([]string{"y", "z"})
	right.AddRow(Row{name("b"), name("c")})

	out := Join(left, right)
	require := assert.New(t)
	require.Len(out.Rows, 1, "expected 1 joined row")

	x, _ := out.Get(out.Rows[0], "x")
	z, _ := out.Get(out.Rows[0], "z")
	require.True(x.Equal(name("a")))
	require.True(z.Equal(name("c")))
}

func TestJoinRejectsIncompatibleSharedValues(t *testing.T) {
	left := NewTable([]string{"x"})
	left.AddRow(Row{name("a")})
	right := NewTable([]string{"x"})
	right.AddRow(Row{name("b")})

	out := Join(left, right)
	assert.Empty(t, out.Rows, "expected no compatible rows")
}

func TestJoinIsAssociative(t *testing.T) {
	// §8: (A ⋈ B) ⋈ C produces the same row set as A ⋈ (B ⋈ C).
	a := NewTable([]string{"x"})
	a.AddRow(Row{name("1")})
	a.AddRow(Row{name("2")})
	b := NewTable([]string{"x", "y"})
	b.AddRow(Row{name("1"), name("a")})
	b.AddRow(Row{name("2"), name("b")})
	c := NewTable([]string{"y", "z"})
	c.AddRow(Row{name("a"), name("p")})

	left := Join(Join(a, b), c)
	right := Join(a, Join(b, c))
	assert.Equal(t, len(left.Rows), len(right.Rows), "associativity violated")
}

func TestLeftJoinPreservesEveryLeftRow(t *testing.T) {
	// §8: left-join preservation — every left row appears at least once.
	left := NewTable([]string{"x"})
	left.AddRow(Row{name("1")})
	left.AddRow(Row{name("2")})
	right := NewTable([]string{"x", "y"})
	right.AddRow(Row{name("1"), name("a")})

	out := LeftJoin(left, right)
	require := assert.New(t)
	require.Len(out.Rows, 2, "expected 2 rows (one matched, one padded unbound)")

	foundUnbound := false
	for _, r := range out.Rows {
		xv, _ := out.Get(r, "x")
		if xv.Equal(name("2")) {
			yv, _ := out.Get(r, "y")
			if yv.IsUnbound() {
				foundUnbound = true
			}
		}
	}
	require.True(foundUnbound, "expected unmatched left row to be padded with unbound, not dropped")
}

func TestMinusIsAntiMonotonic(t *testing.T) {
	// §8: adding more rows to the right side of MINUS never increases
	// the result.
	left := NewTable([]string{"x"})
	left.AddRow(Row{name("1")})
	left.AddRow(Row{name("2")})
	rightEmpty := NewTable([]string{"x"})
	rightFull := NewTable([]string{"x"})
	rightFull.AddRow(Row{name("1")})

	before := Minus(left, rightEmpty)
	after := Minus(left, rightFull)
	assert.LessOrEqualf(t, len(after.Rows), len(before.Rows), "MINUS is not anti-monotonic: %d rows grew to %d", len(before.Rows), len(after.Rows))
	assert.Len(t, after.Rows, 1, "expected exactly one surviving row")
}

func TestDistinctIsIdempotent(t *testing.T) {
	t1 := NewTable([]string{"x"})
	t1.AddRow(Row{name("1")})
	t1.AddRow(Row{name("1")})
	t1.AddRow(Row{name("2")})

	once := t1.Distinct()
	twice := once.Distinct()
	assert.Equal(t, len(once.Rows), len(twice.Rows), "DISTINCT is not idempotent")
	assert.Len(t, once.Rows, 2, "expected 2 distinct rows")
}

func TestSliceComposesLimitAndOffset(t *testing.T) {
	t1 := NewTable([]string{"x"})
	for i := 0; i < 5; i++ {
		t1.AddRow(Row{rdf.Integer(int64(i))})
	}
	out := t1.Slice(1, 2)
	require := assert.New(t)
	require.Len(out.Rows, 2, "expected 2 rows after OFFSET 1 LIMIT 2")

	v0, _ := out.Get(out.Rows[0], "x")
	v1, _ := out.Get(out.Rows[1], "x")
	n0, _ := v0.NumericValue()
	n1, _ := v1.NumericValue()
	require.Equal(1.0, n0)
	require.Equal(2.0, n1)
}

func TestUnionConcatenatesWithColumnUnion(t *testing.T) {
	left := NewTable([]string{"x"})
	left.AddRow(Row{name("1")})
	right := NewTable([]string{"y"})
	right.AddRow(Row{name("2")})

	out := Union(left, right)
	assert.Len(t, out.Rows, 2, "expected 2 rows")
	assert.True(t, out.HasColumn("x") && out.HasColumn("y"), "expected union of columns x and y")
}
