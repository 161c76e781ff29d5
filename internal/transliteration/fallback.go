package transliteration

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Piece is one step of fallback segmentation: the consumed input and what it
// was rendered as. Unmatched pieces carry a single rune copied through.
type Piece struct {
	Source  string
	Output  string
	Matched bool
}

// Segment splits input by maximal munch against the table. The whole
// lowercased input is tried first; otherwise chunks of 3, 2 then 1 runes are
// tried at each position and an unmatched rune is copied through. Every rune
// of the lowercased input lands in exactly one piece.
func (t *Table) Segment(input string) []Piece {
	if input == "" {
		return nil
	}
	lower := strings.ToLower(norm.NFC.String(input))
	if out, ok := t.Lookup(lower); ok {
		return []Piece{{Source: lower, Output: out, Matched: true}}
	}

	runes := []rune(lower)
	pieces := make([]Piece, 0, len(runes))
	for i := 0; i < len(runes); {
		matched := false
		for n := min(maxChunk, len(runes)-i); n > 0; n-- {
			chunk := string(runes[i : i+n])
			if out, ok := t.Lookup(chunk); ok {
				pieces = append(pieces, Piece{Source: chunk, Output: out, Matched: true})
				i += n
				matched = true
				break
			}
		}
		if !matched {
			ch := string(runes[i])
			pieces = append(pieces, Piece{Source: ch, Output: ch})
			i++
		}
	}
	return pieces
}

// Fallback renders input with the table alone. It never fails; unknown
// characters pass through, so quality degrades instead.
func (t *Table) Fallback(input string) string {
	pieces := t.Segment(input)
	if len(pieces) == 1 {
		return pieces[0].Output
	}
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(p.Output)
	}
	return b.String()
}
