package catagen

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// ReplaceTokens substitutes every key of repl with its value across all
// text-bearing shapes of the slide: plain text shapes, table cells inside
// graphic frames, and shapes nested in groups. Substitution operates on the
// merged paragraph text, so tokens split across styled run fragments still
// match; the resolved text is written back into the first fragment and the
// remaining fragments are emptied in place, leaving their styling untouched.
// Reports whether any paragraph changed.
func (s *Slide) ReplaceTokens(repl map[string]string) bool {
	tree := s.spTree()
	if tree == nil || len(repl) == 0 {
		return false
	}
	changed := false
	for _, el := range tree.ChildElements() {
		if replaceInShapeElement(el, repl) {
			changed = true
		}
	}
	return changed
}

// ReplaceTokenWithText rewrites the first paragraph whose merged text
// contains token, replacing only the token substring. Reports false when no
// text-frame paragraph on the slide carries the token.
func (s *Slide) ReplaceTokenWithText(token, text string) bool {
	tree := s.spTree()
	if tree == nil || token == "" {
		return false
	}
	return replaceFirstParagraph(tree, map[string]string{token: text})
}

func replaceInShapeElement(el *etree.Element, repl map[string]string) bool {
	switch el.Tag {
	case "sp":
		return replaceInTextBody(el.SelectElement("p:txBody"), repl)
	case "graphicFrame":
		changed := false
		for _, tc := range tableCells(el) {
			if replaceInTextBody(tc.SelectElement("a:txBody"), repl) {
				changed = true
			}
		}
		return changed
	case "grpSp":
		changed := false
		for _, ch := range el.ChildElements() {
			if replaceInShapeElement(ch, repl) {
				changed = true
			}
		}
		return changed
	}
	return false
}

func replaceInTextBody(tb *etree.Element, repl map[string]string) bool {
	if tb == nil {
		return false
	}
	changed := false
	for _, p := range tb.SelectElements("a:p") {
		if replaceInParagraph(p, repl) {
			changed = true
		}
	}
	return changed
}

// replaceInParagraph merges all run fragments, substitutes, and writes the
// result back through the first fragment. Paragraphs without runs have no
// text to carry a token and are skipped.
func replaceInParagraph(p *etree.Element, repl map[string]string) bool {
	runs := p.SelectElements("a:r")
	if len(runs) == 0 {
		return false
	}
	full := paragraphText(p)
	out := substitute(full, repl)
	if out == full {
		return false
	}

	first := runs[0].SelectElement("a:t")
	if first == nil {
		first = runs[0].CreateElement("a:t")
	}
	first.SetText(out)
	for _, r := range runs[1:] {
		if tEl := r.SelectElement("a:t"); tEl != nil {
			tEl.SetText("")
		}
	}
	return true
}

func replaceFirstParagraph(el *etree.Element, repl map[string]string) bool {
	for _, ch := range el.ChildElements() {
		switch ch.Tag {
		case "sp":
			tb := ch.SelectElement("p:txBody")
			if tb == nil {
				continue
			}
			for _, p := range tb.SelectElements("a:p") {
				if replaceInParagraph(p, repl) {
					return true
				}
			}
		case "grpSp":
			if replaceFirstParagraph(ch, repl) {
				return true
			}
		}
	}
	return false
}

// substitute performs one left-to-right pass over s, replacing the longest
// matching key at each position. Replacement values are never re-scanned, so
// a value containing another token survives literally.
func substitute(s string, repl map[string]string) string {
	keys := make([]string, 0, len(repl))
	for k := range repl {
		if k != "" && strings.Contains(s, k) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return s
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	var out strings.Builder
	for i := 0; i < len(s); {
		matched := false
		for _, k := range keys {
			if strings.HasPrefix(s[i:], k) {
				out.WriteString(repl[k])
				i += len(k)
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(s[i:])
			out.WriteString(s[i : i+size])
			i += size
		}
	}
	return out.String()
}

// tableCells returns every cell of the table hosted by a graphic frame, in
// row-major order. Non-table graphic frames yield nothing.
func tableCells(gf *etree.Element) []*etree.Element {
	graphic := gf.SelectElement("a:graphic")
	if graphic == nil {
		return nil
	}
	data := graphic.SelectElement("a:graphicData")
	if data == nil {
		return nil
	}
	tbl := data.SelectElement("a:tbl")
	if tbl == nil {
		return nil
	}
	var cells []*etree.Element
	for _, tr := range tbl.SelectElements("a:tr") {
		cells = append(cells, tr.SelectElements("a:tc")...)
	}
	return cells
}
