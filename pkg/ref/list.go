package ref

import (
	"sort"

	"github.com/berth-web/berth/pkg/compare"
)

// List is an ordered sequence of references, typically the contents of
// one directory. A list is produced fresh for each request and is not
// shared between requests.
type List struct {
	// Identifier is the reference of the directory the list describes.
	Identifier *Reference

	refs []*Reference
}

// NewList creates a list for the given directory reference.
func NewList(identifier *Reference) *List {
	return &List{Identifier: identifier}
}

// Add appends a reference to the list.
func (l *List) Add(r *Reference) {
	l.refs = append(l.refs, r)
}

// Len returns the number of references in the list.
func (l *List) Len() int {
	return len(l.refs)
}

// All returns the references in their current order.
func (l *List) All() []*Reference {
	return l.refs
}

// Sort orders the list with the given string comparator. References
// with a nil or empty identifier sort before all others.
func (l *List) Sort(cmp compare.Func) {
	sort.SliceStable(l.refs, func(i, j int) bool {
		a, b := l.refs[i], l.refs[j]
		aZero, bZero := a.IsZero(), b.IsZero()
		switch {
		case aZero && bZero:
			return false
		case aZero:
			return true
		case bZero:
			return false
		}
		return cmp(a.String(), b.String()) < 0
	})
}
