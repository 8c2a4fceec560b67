package speech

import (
	"strings"
	"unicode/utf8"
)

// sentenceEnds are preferred cut points, kept with the preceding segment.
var sentenceEnds = []string{"\n", ". ", "! ", "? ", "; ", "… "}

// Segment splits text into pieces of at most max bytes.
// Cuts fall on sentence ends when possible, then on whitespace, and only
// inside a word when a single word is longer than max.
func Segment(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if max <= 0 || len(text) <= max {
		return []string{text}
	}

	var segments []string
	for len(text) > max {
		cut := splitPoint(text, max)
		if seg := strings.TrimSpace(text[:cut]); seg != "" {
			segments = append(segments, seg)
		}
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		segments = append(segments, text)
	}
	return segments
}

// splitPoint returns where to cut text, which is longer than max.
// The window includes byte max so a separator whose space falls just past
// the limit still counts.
func splitPoint(text string, max int) int {
	window := text[:max+1]

	best := 0
	for _, sep := range sentenceEnds {
		if i := strings.LastIndex(window, sep); i >= 0 {
			// Keep the punctuation, drop the trailing space.
			if cut := i + len(strings.TrimRight(sep, " ")); cut > best {
				best = cut
			}
		}
	}
	if best > 0 {
		return best
	}

	if i := strings.LastIndexAny(window, " \t"); i > 0 {
		return i
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(text)
		cut = size
	}
	return cut
}
