package textpipeline

import "strings"

// attachment controls which adjacent whitespace a spoken-punctuation
// replacement consumes, so dictation reads naturally ("hello period" ->
// "hello." not "hello .").
type attachment int

const (
	attachLeft  attachment = iota // consume the whitespace before the phrase (closing marks)
	attachRight                   // consume the whitespace after the phrase (opening marks)
	attachBoth                    // consume whitespace on both sides (newlines, dash, at-sign)
)

type punctuationEntry struct {
	replacement string
	attach      attachment
}

// spokenPunctuation is the fixed dictionary of spoken phrases recognized
// when spoken_punctuation is enabled. Two-word entries only match when the
// words are adjacent, separated by exactly one run of whitespace.
var spokenPunctuation = map[string]punctuationEntry{
	"period":             {".", attachLeft},
	"comma":              {",", attachLeft},
	"question mark":      {"?", attachLeft},
	"exclamation mark":   {"!", attachLeft},
	"exclamation point":  {"!", attachLeft},
	"colon":              {":", attachLeft},
	"semicolon":          {";", attachLeft},
	"ellipsis":           {"...", attachLeft},
	"open paren":         {"(", attachRight},
	"open parenthesis":   {"(", attachRight},
	"close paren":        {")", attachLeft},
	"close parenthesis":  {")", attachLeft},
	"open quote":         {"\"", attachRight},
	"close quote":        {"\"", attachLeft},
	"new line":           {"\n", attachBoth},
	"newline":            {"\n", attachBoth},
	"new paragraph":      {"\n\n", attachBoth},
	"dash":               {"-", attachBoth},
	"hyphen":             {"-", attachBoth},
	"at sign":            {"@", attachBoth},
	"at symbol":          {"@", attachBoth},
}

type segment struct {
	text  string
	space bool // true if this segment is a run of whitespace
}

// ApplySpokenPunctuation replaces spoken punctuation phrases with their
// written form. It runs after user replacements (spec.md §4.4): a user
// replacement that already consumed a word takes precedence, since this
// stage only ever sees what step 1 left behind.
func ApplySpokenPunctuation(text string) string {
	segs := tokenize(text)
	out := make([]string, len(segs))
	for i := range segs {
		out[i] = segs[i].text
	}

	for i := 0; i < len(segs); i++ {
		if segs[i].space {
			continue
		}

		// Try a two-word phrase first: word, single whitespace run, word.
		if i+2 < len(segs) && segs[i+1].space && !segs[i+2].space {
			phrase := strings.ToLower(segs[i].text) + " " + strings.ToLower(segs[i+2].text)
			if entry, ok := spokenPunctuation[phrase]; ok {
				applyEntry(out, i, i+2, entry)
				i += 2
				continue
			}
		}

		if entry, ok := spokenPunctuation[strings.ToLower(segs[i].text)]; ok {
			applyEntry(out, i, i, entry)
		}
	}

	return strings.Join(out, "")
}

// applyEntry writes entry's replacement into out[first] (clearing any
// segments through out[last]) and blanks the adjacent whitespace segment
// entry.attach calls for, if one exists.
func applyEntry(out []string, first, last int, entry punctuationEntry) {
	out[first] = entry.replacement
	for i := first + 1; i <= last; i++ {
		out[i] = ""
	}
	switch entry.attach {
	case attachLeft:
		if first > 0 {
			out[first-1] = ""
		}
	case attachRight:
		if last+1 < len(out) {
			out[last+1] = ""
		}
	case attachBoth:
		if first > 0 {
			out[first-1] = ""
		}
		if last+1 < len(out) {
			out[last+1] = ""
		}
	}
}

// tokenize splits text into alternating word/whitespace segments.
func tokenize(text string) []segment {
	var segs []segment
	start := 0
	for start < len(text) {
		if isSpace(text[start]) {
			end := start
			for end < len(text) && isSpace(text[end]) {
				end++
			}
			segs = append(segs, segment{text: text[start:end], space: true})
			start = end
			continue
		}
		end := start
		for end < len(text) && !isSpace(text[end]) {
			end++
		}
		segs = append(segs, segment{text: text[start:end], space: false})
		start = end
	}
	return segs
}
