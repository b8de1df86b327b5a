package source

import "testing"

func TestAddVirtualNormalizesContent(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.rs", []byte("\xEF\xBB\xBFfn main() {}\r\n"))

	f := fs.Get(id)
	if f == nil {
		t.Fatal("file not found")
	}
	if string(f.Content) != "fn main() {}\n" {
		t.Fatalf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.rs", []byte("fn main() {\n    return;\n}\n"))

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{"start_of_file", 0, LineCol{Line: 1, Col: 1}},
		{"mid_first_line", 3, LineCol{Line: 1, Col: 4}},
		{"newline_byte", 11, LineCol{Line: 1, Col: 12}},
		{"start_of_second_line", 12, LineCol{Line: 2, Col: 1}},
		{"return_keyword", 16, LineCol{Line: 2, Col: 5}},
		{"closing_brace", 24, LineCol{Line: 3, Col: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
			if start != tt.want {
				t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.rs", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "first" {
		t.Errorf("line 1: got %q", got)
	}
	if got := f.GetLine(2); got != "second" {
		t.Errorf("line 2: got %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Errorf("line 3: got %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("line 4: got %q, want empty", got)
	}
}
