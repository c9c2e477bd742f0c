// Package text extracts structured data from loosely formatted chat messages and
// renders amounts and dates the way partners expect to read them.
package text

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const minNewlinesThreshold = 3

var (
	// controlCharsRegex matches ASCII control characters (including DEL) except tab and newline.
	controlCharsRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	multipleNewlinesRegex = regexp.MustCompile("\n{" + strconv.Itoa(minNewlinesThreshold) + ",}")

	// Chat clients paste Thai text with zero-width break hints between words; they are
	// dropped rather than turned into spaces so field labels stay contiguous.
	unicodeReplacer = strings.NewReplacer(
		"\u2060", "", // word joiner
		"\uFEFF", "", // byte order mark
		"\u00AD", "", // soft hyphen
		"\u200E", "", // left-to-right mark
		"\u200F", "", // right-to-left mark
		"\u200B", "", // zero width space
		"\u200C", "", // zero width non-joiner
		"\u200D", "", // zero width joiner
		"\u2028", "\n",
		"\u2029", "\n\n",
		"\u205F", " ",
		"\u2009", " ",
		"\u200A", " ",
		"\u202F", " ",
		"\u3000", " ",
		"\u00A0", " ",
	)
)

// normalizeLineWhitespace collapses runs of whitespace into one space and trims the line.
func normalizeLineWhitespace(line string) string {
	var sb strings.Builder
	var space bool

	for _, r := range line {
		if unicode.IsSpace(r) {
			if !space {
				sb.WriteRune(' ')
				space = true
			}
		} else {
			sb.WriteRune(r)
			space = false
		}
	}

	return strings.TrimSpace(sb.String())
}

// Normalize cleans an inbound chat message before it is classified:
//
//  1. line endings are converted to LF
//  2. invisible format characters are removed and exotic spaces become plain spaces
//  3. ASCII control characters are replaced by spaces
//  4. whitespace is collapsed per line and runs of blank lines are capped at one
//  5. the result is trimmed
func Normalize(input string) string {
	if input == "" {
		return ""
	}

	s := strings.ReplaceAll(input, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = unicodeReplacer.Replace(s)
	s = controlCharsRegex.ReplaceAllString(s, " ")

	parts := strings.Split(s, "\n")
	for i := range parts {
		parts[i] = normalizeLineWhitespace(parts[i])
	}

	s = strings.Join(parts, "\n")
	s = multipleNewlinesRegex.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
