package calculator

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	// "8 - Café", "12: Deli", "3) Bar"
	leadingNumber = regexp.MustCompile(`^\s*(\d+)\s*[-–—:.|/)]`)
	anyNumber     = regexp.MustCompile(`\d+`)
)

// NameNumber extracts the number a name sorts by: the leading integer when it
// is followed by a separator, otherwise the first integer anywhere in the
// name. ok is false when the name has no usable integer.
func NameNumber(name string) (n int, ok bool) {
	digits := ""
	if m := leadingNumber.FindStringSubmatch(name); m != nil {
		digits = m[1]
	} else {
		digits = anyNumber.FindString(name)
	}
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NameOrder orders participant names: by NameNumber ascending, names with a
// number before names without, and then by locale collation.
// A NameOrder is not safe for concurrent use.
type NameOrder struct {
	collator *collate.Collator
}

// NewNameOrder returns a NameOrder collating for locale.
func NewNameOrder(locale language.Tag) *NameOrder {
	return &NameOrder{collator: collate.New(locale)}
}

// Compare returns -1, 0 or 1.
func (o *NameOrder) Compare(a, b string) int {
	na, oka := NameNumber(a)
	nb, okb := NameNumber(b)
	switch {
	case oka && !okb:
		return -1
	case !oka && okb:
		return 1
	case oka && okb && na != nb:
		if na < nb {
			return -1
		}
		return 1
	}
	if c := o.collator.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
