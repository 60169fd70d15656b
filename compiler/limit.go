package compiler

import "strconv"

// LimitClause renders the Netezza pagination clause. Netezza does not accept
// bind parameters in LIMIT or OFFSET, so both values are inlined. A nil or
// negative limit with a positive offset yields LIMIT ALL OFFSET m, and the
// result is empty when neither is set.
func LimitClause(limit *int, offset int) string {
	hasLimit := limit != nil && *limit >= 0
	switch {
	case hasLimit && offset > 0:
		return "LIMIT " + strconv.Itoa(*limit) + " OFFSET " + strconv.Itoa(offset)
	case hasLimit:
		return "LIMIT " + strconv.Itoa(*limit)
	case offset > 0:
		return "LIMIT ALL OFFSET " + strconv.Itoa(offset)
	default:
		return ""
	}
}
