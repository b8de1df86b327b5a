package types

import "testing"

func TestInternStable(t *testing.T) {
	in := NewInterner()
	a := in.Intern(MakeInt(Width32))
	b := in.Intern(MakeInt(Width32))
	if a != b {
		t.Errorf("same descriptor interned to different ids: %d != %d", a, b)
	}
	if a != in.Builtins().I32 {
		t.Errorf("i32 not deduplicated against builtin: %d != %d", a, in.Builtins().I32)
	}
}

func TestByName(t *testing.T) {
	in := NewInterner()
	tests := []struct {
		name string
		want TypeID
		ok   bool
	}{
		{"i32", in.Builtins().I32, true},
		{"i64", in.Builtins().I64, true},
		{"bool", in.Builtins().Bool, true},
		{"()", in.Builtins().Unit, true},
		{"f32", NoTypeID, false},
		{"str", NoTypeID, false},
	}
	for _, tt := range tests {
		got, ok := in.ByName(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ByName(%q) = (%d, %v), want (%d, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNames(t *testing.T) {
	in := NewInterner()
	if got := in.Name(in.Builtins().I32); got != "i32" {
		t.Errorf("i32 name: %q", got)
	}
	if got := in.Name(in.Builtins().Unit); got != "()" {
		t.Errorf("unit name: %q", got)
	}
	if got := in.Name(NoTypeID); got != "<invalid>" {
		t.Errorf("invalid name: %q", got)
	}
}
