package textpipeline

import (
	"strings"
	"unicode"
)

// ApplyReplacements performs case-insensitive, whole-word substitution of
// each key in table with its value. Matches preserve the whitespace
// surrounding them, and substitutions are not recursive: a value that
// happens to contain another key is left untouched.
func ApplyReplacements(text string, table map[string]string) string {
	if len(table) == 0 || text == "" {
		return text
	}
	return replaceWords(text, table)
}

// replaceWords scans text word-by-word (runs of non-whitespace separated
// by whitespace runs), replacing any word whose case-folded form matches a
// table key. Punctuation attached to a word is not stripped, so "cat," is
// not considered a match for key "cat" -- this matches the teacher's own
// whole-word philosophy of never silently mangling adjacent punctuation.
func replaceWords(text string, table map[string]string) string {
	folded := make(map[string]string, len(table))
	for k, v := range table {
		folded[strings.ToLower(k)] = v
	}

	var b strings.Builder
	b.Grow(len(text))

	start := 0
	for start < len(text) {
		for start < len(text) && isSpace(text[start]) {
			b.WriteByte(text[start])
			start++
		}
		end := start
		for end < len(text) && !isSpace(text[end]) {
			end++
		}
		if end > start {
			word := text[start:end]
			if repl, ok := folded[strings.ToLower(word)]; ok {
				b.WriteString(repl)
			} else {
				b.WriteString(word)
			}
		}
		start = end
	}

	return b.String()
}

func isSpace(b byte) bool {
	return unicode.IsSpace(rune(b))
}
