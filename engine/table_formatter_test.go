package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectResultTableRendersHeaderAndRowCount(t *testing.T) {
	res := &SelectResult{
		Variables: []string{"who"},
		Rows:      []Row{{name("alice")}, {name("bob")}},
	}
	out := res.Table()
	assert.Contains(t, out, "?who")
	assert.Contains(t, out, "2 rows")
}

func TestSelectResultTableRendersEmptyRelationMessage(t *testing.T) {
	res := &SelectResult{Variables: []string{"x"}}
	out := res.Table()
	assert.Contains(t, out, "No rows")
}
