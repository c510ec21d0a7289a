package ref

import (
	"testing"

	"github.com/berth-web/berth/pkg/compare"
)

func TestListSort(t *testing.T) {
	list := NewList(New("http://h/docs/"))
	for _, raw := range []string{"b10.txt", "sub/", "a.txt", "b2.txt"} {
		list.Add(New(raw))
	}
	list.Sort(compare.Alphanumeric)

	want := []string{"a.txt", "b2.txt", "b10.txt", "sub/"}
	got := list.All()
	if len(got) != len(want) {
		t.Fatalf("Len = %d, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.String() != want[i] {
			t.Errorf("entry %d = %q, want %q", i, r.String(), want[i])
		}
	}
}

func TestListSortEmptyIdentifierFirst(t *testing.T) {
	list := NewList(nil)
	list.Add(New("a"))
	list.Add(New(""))
	list.Add(New("b"))
	list.Sort(compare.Lexical)

	if got := list.All()[0].String(); got != "" {
		t.Errorf("first entry = %q, want empty identifier first", got)
	}
}
