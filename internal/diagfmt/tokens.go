package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"rustic/internal/source"
	"rustic/internal/token"
)

// FormatTokensPretty prints one token per line with resolved positions.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for _, t := range tokens {
		start, _ := fs.Resolve(t.Span)
		if t.Text != "" && t.Text != t.Kind.String() {
			if _, err := fmt.Fprintf(w, "%4d:%-3d %-12s %q\n", start.Line, start.Col, t.Kind, t.Text); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%4d:%-3d %s\n", start.Line, start.Col, t.Kind); err != nil {
			return err
		}
	}
	return nil
}

type tokenPayload struct {
	Kind  string `json:"kind"`
	Text  string `json:"text,omitempty"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// FormatTokensJSON prints the token stream as a JSON array of records.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	payload := make([]tokenPayload, len(tokens))
	for i, t := range tokens {
		payload[i] = tokenPayload{
			Kind:  t.Kind.String(),
			Text:  t.Text,
			Start: t.Span.Start,
			End:   t.Span.End,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
