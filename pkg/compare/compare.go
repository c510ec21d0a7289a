// Package compare provides the total orders used to sort directory
// listings. Two policies are built in: a plain lexical order and the
// "alphanum" order that treats digit runs as whole numerals, so
// "img2" sorts before "img10".
package compare

// Func is a total order over strings. It returns a negative value when
// a sorts before b, zero when they are equivalent, and a positive value
// when a sorts after b.
type Func func(a, b string) int

// Lexical compares two strings byte-wise.
func Lexical(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Alphanumeric compares two strings in a single left-to-right pass.
//
// Non-digit characters compare by code point and short-circuit on the
// first difference. Runs of digits are treated as one numeral: numerals
// of equal length compare by their most significant differing digit,
// numerals of unequal length compare by length (so "2" < "10"). When
// both strings run out of compared characters, the shorter sorts first.
func Alphanumeric(a, b string) int {
	la, lb := len(a), len(b)
	min := la
	if lb < la {
		min = lb
	}

	// msd carries the most significant digit difference seen inside the
	// current digit run; it only decides the order once both runs end on
	// the same position.
	msd := 0

	for i := 0; i < min; i++ {
		ca, cb := a[i], b[i]
		diff := int(ca) - int(cb)

		if isNotDigit(ca) || isNotDigit(cb) {
			if diff != 0 {
				return diff
			}
			msd = 0
			continue
		}

		if msd == 0 {
			msd = diff
		}

		aEnds := la-i < 2 || isNotDigit(a[i+1])
		bEnds := lb-i < 2 || isNotDigit(b[i+1])

		switch {
		case aEnds && bEnds:
			// Both numerals end here: equal length, the leftmost digit
			// difference decides.
			if msd != 0 {
				return msd
			}
			msd = 0
		case aEnds:
			// a's numeral is shorter, so it is the smaller number.
			return -1
		case bEnds:
			return 1
		}
	}

	return la - lb
}

func isNotDigit(c byte) bool {
	return c < '0' || c > '9'
}
