package diag

import (
	"testing"

	"rustic/internal/source"
)

func TestBagCapacity(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 3; i++ {
		ok := bag.Add(NewError(LowTypeMismatch, source.Span{Start: uint32(i)}, "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d", bag.Len())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	bag := NewBag(4)
	bag.Add(New(SevWarning, LowBadLiteral, source.Span{}, "w"))
	if bag.HasErrors() {
		t.Fatal("warning counted as error")
	}
	bag.Add(NewError(LowUnresolvedName, source.Span{}, "e"))
	if !bag.HasErrors() {
		t.Fatal("error not detected")
	}
	if bag.HasInternalErrors() {
		t.Fatal("user code counted as internal")
	}
	bag.Add(NewError(InvUseBeforeDef, source.Span{}, "inv"))
	if !bag.HasInternalErrors() {
		t.Fatal("internal code not detected")
	}
}

func TestBagSortIsPositional(t *testing.T) {
	bag := NewBag(4)
	bag.Add(NewError(LowTypeMismatch, source.Span{Start: 20, End: 21}, "late"))
	bag.Add(NewError(LowUnresolvedName, source.Span{Start: 3, End: 4}, "early"))
	bag.Sort()
	items := bag.Items()
	if items[0].Message != "early" || items[1].Message != "late" {
		t.Fatalf("order = %q, %q", items[0].Message, items[1].Message)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(4)
	sp := source.Span{Start: 5, End: 6}
	bag.Add(NewError(LowUnresolvedName, sp, "a"))
	bag.Add(NewError(LowUnresolvedName, sp, "a again"))
	bag.Add(NewError(LowTypeMismatch, sp, "b"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("Len after Dedup = %d", bag.Len())
	}
}

func TestCodeRanges(t *testing.T) {
	cases := []struct {
		code     Code
		id       string
		internal bool
	}{
		{LexUnknownChar, "LEX1001", false},
		{SynUnexpectedToken, "SYN2001", false},
		{LowMissingReturn, "LOW3012", false},
		{InvUnterminatedBlock, "INV4001", true},
		{DrvReadFailed, "DRV5001", false},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.id {
			t.Errorf("%d.ID() = %q, want %q", tc.code, got, tc.id)
		}
		if got := tc.code.IsInternal(); got != tc.internal {
			t.Errorf("%d.IsInternal() = %v, want %v", tc.code, got, tc.internal)
		}
	}
}
