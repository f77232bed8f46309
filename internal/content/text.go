package content

import (
	"bytes"
	"regexp"
)

var (
	// A small indent after a newline starts a new paragraph.
	paragraphIndent = regexp.MustCompile(`\n+( {2,4}|\t)\s*`)

	// Remaining leading whitespace would turn lines into code blocks.
	leadingWhitespace = regexp.MustCompile(`(?m)^[ \t]+`)

	// Runs of punctuation alone on a line become a thematic break instead of
	// a setext heading or code fence.
	decorativeRule = regexp.MustCompile(`(?m)^\s*([-=.*_~\x60#+] ?){3,}\s*$`)

	trailingWhitespace = regexp.MustCompile(`(?m)[ \t]+$`)
)

// ScrubDescription normalizes plain text so that it renders predictably as
// CommonMark.
func ScrubDescription() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		input = bytes.ReplaceAll(input, []byte("\r\n"), []byte("\n"))
		input = bytes.ReplaceAll(input, []byte("\r"), []byte("\n"))
		input = paragraphIndent.ReplaceAll(input, []byte("\n\n"))
		input = leadingWhitespace.ReplaceAll(input, nil)
		input = decorativeRule.ReplaceAll(input, []byte("***"))
		input = trailingWhitespace.ReplaceAll(input, nil)
		return bytes.TrimSpace(input), nil
	}
}
