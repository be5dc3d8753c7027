package query

import "fmt"

// MalformedQueryError reports a structural violation detected before
// evaluation (§7): an illegally-nested filter, or a projection of a
// variable no pattern group or expression binding produces.
type MalformedQueryError struct {
	Reason string
}

func (e *MalformedQueryError) Error() string {
	return fmt.Sprintf("malformed query: %s", e.Reason)
}
