package textpipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplySpokenPunctuationSingleWordPhrase(t *testing.T) {
	require.Equal(t, "hello.", ApplySpokenPunctuation("hello period"))
}

func TestApplySpokenPunctuationTwoWordPhrase(t *testing.T) {
	require.Equal(t, "note (aside)", ApplySpokenPunctuation("note open paren aside close paren"))
}

func TestApplySpokenPunctuationNewLine(t *testing.T) {
	require.Equal(t, "first\nsecond", ApplySpokenPunctuation("first new line second"))
}

func TestApplySpokenPunctuationLeavesUnrecognizedWordsAlone(t *testing.T) {
	text := "the quick brown fox"
	require.Equal(t, text, ApplySpokenPunctuation(text))
}

func TestApplySpokenPunctuationIsCaseInsensitive(t *testing.T) {
	require.Equal(t, "hi.", ApplySpokenPunctuation("hi Period"))
}
