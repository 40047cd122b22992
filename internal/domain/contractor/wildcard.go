package contractor

const wildcard = "%"

// Wildcard wraps s for substring matching with LIKE.
// Embedded % and _ are passed through and act as pattern operators.
func Wildcard(s string) string {
	return wildcard + s + wildcard
}
