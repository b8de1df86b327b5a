package diagfmt

import (
	"strings"
	"testing"

	"rustic/internal/diag"
	"rustic/internal/source"
)

func renderOne(t *testing.T, content string, d diag.Diagnostic, opts PrettyOpts) string {
	t.Helper()
	fs := source.NewFileSet()
	fs.AddVirtual("main.rs", []byte(content))
	bag := diag.NewBag(8)
	bag.Add(d)
	var sb strings.Builder
	Pretty(&sb, bag, fs, opts)
	return sb.String()
}

func TestPrettyHeaderLine(t *testing.T) {
	out := renderOne(t, "fn main() {}\n",
		diag.NewError(diag.LowUnresolvedName, source.Span{File: 0, Start: 3, End: 7}, "unresolved name `main`"),
		PrettyOpts{})
	want := "main.rs:1:4: ERROR[LOW3001]: unresolved name `main`\n"
	if out != want {
		t.Fatalf("out = %q, want %q", out, want)
	}
}

func TestPrettyContextCaret(t *testing.T) {
	out := renderOne(t, "let x = y;\n",
		diag.NewError(diag.LowUnresolvedName, source.Span{File: 0, Start: 8, End: 9}, "unresolved name `y`"),
		PrettyOpts{ShowContext: true})
	if !strings.Contains(out, "| let x = y;\n") {
		t.Fatalf("missing source line:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 3 || !strings.HasSuffix(lines[2], "        ^") {
		t.Fatalf("caret misplaced:\n%s", out)
	}
}

func TestPrettyInternalFraming(t *testing.T) {
	out := renderOne(t, "fn main() {}\n",
		diag.NewError(diag.InvUnterminatedBlock, source.Span{File: 0, Start: 0, End: 2}, "bb1 has no terminator"),
		PrettyOpts{})
	if !strings.Contains(out, "INTERNAL ERROR[INV4001]") {
		t.Fatalf("missing internal framing:\n%s", out)
	}
	if !strings.Contains(out, "bug in the compiler") {
		t.Fatalf("missing report note:\n%s", out)
	}
}

func TestPrettyNotes(t *testing.T) {
	d := diag.NewError(diag.LowDuplicateBinding, source.Span{File: 0, Start: 15, End: 16}, "name already bound").
		WithNote(source.Span{File: 0, Start: 4, End: 5}, "previous binding here")
	out := renderOne(t, "let x = 1; let x = 2;\n", d, PrettyOpts{ShowNotes: true})
	if !strings.Contains(out, "note: main.rs:1:5: previous binding here") {
		t.Fatalf("note missing:\n%s", out)
	}
}
